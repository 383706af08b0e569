package simulator

//go:generate mockgen -source=stats_writer.go -package=simulator -destination=stats_writer_mock.go

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/scootdev/batchsim/scheduler/server"
)

const StatsHeader = "NodeID, CPU_Utilization(%), Memory_Utilization(%)"

// Retry settings for a single day's statistics file.
const (
	DefaultWriteRetries         = 3
	DefaultWriteInitialInterval = 10 * time.Millisecond
	DefaultWriteMaxElapsedTime  = time.Second
)

// StatsWriter persists the node statistics recorded for a day.
type StatsWriter interface {
	WriteDay(day int, nodes []server.NodeStats) error
}

// StatsFileName is the name of the file holding the given day's statistics.
func StatsFileName(day int) string {
	return fmt.Sprintf("scheduler_stats_day_%d.csv", day)
}

// WriteCSV writes the header followed by one row per node, in node order.
func WriteCSV(w io.Writer, nodes []server.NodeStats) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n", StatsHeader); err != nil {
		return err
	}
	for _, n := range nodes {
		if _, err := fmt.Fprintf(bw, "%d,%s,%s\n",
			n.NodeId, formatPercent(n.CPUUtilization), formatPercent(n.MemoryUtilization)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// six significant digits, e.g. 41.6667, 12.5, 100, 0
func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// CSVStatsWriter writes each day to its own file in a directory,
// retrying a failed write with exponential backoff.
type CSVStatsWriter struct {
	dir        string
	newBackOff func() backoff.BackOff
}

// NewCSVStatsWriter creates dir if needed.
func NewCSVStatsWriter(dir string) (*CSVStatsWriter, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "couldn't create stats directory %s", dir)
	}
	return &CSVStatsWriter{dir: dir, newBackOff: defaultWriteBackOff}, nil
}

func defaultWriteBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = DefaultWriteInitialInterval
	b.MaxElapsedTime = DefaultWriteMaxElapsedTime
	return backoff.WithMaxRetries(b, DefaultWriteRetries)
}

func (w *CSVStatsWriter) Dir() string {
	return w.dir
}

func (w *CSVStatsWriter) WriteDay(day int, nodes []server.NodeStats) error {
	path := filepath.Join(w.dir, StatsFileName(day))
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := writeStatsFile(path, nodes)
		if err != nil {
			log.Debugf("attempt %d writing %s failed: %v", attempt, path, err)
		}
		return err
	}, w.newBackOff())
	if err != nil {
		return errors.Wrapf(err, "couldn't write statistics for day %d after %d attempts", day, attempt)
	}
	return nil
}

func writeStatsFile(path string, nodes []server.NodeStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, nodes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
