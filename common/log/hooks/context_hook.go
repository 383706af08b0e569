package hooks

import (
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/sirupsen/logrus"
)

const modulePrefix = "github.com/scootdev/batchsim/"

type contextHook struct {
}

// NewContextHook returns a hook that records the caller's "dir/file:line"
// on every entry.
func NewContextHook() contextHook {
	return contextHook{}
}

func (hook contextHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (hook contextHook) Fire(entry *logrus.Entry) error {
	lines := strings.Split(string(debug.Stack()), "\n")
	// Each frame is a function line followed by a tab indented "path/file.go:line +0x.." line.
	// The first batchsim function outside of this hook is the caller.
	for i := 0; i+1 < len(lines); i++ {
		fn := lines[i]
		if !strings.HasPrefix(fn, modulePrefix) || strings.Contains(fn, "hooks.contextHook.") {
			continue
		}
		loc := strings.Fields(strings.TrimSpace(lines[i+1]))
		if len(loc) > 0 {
			dir, file := filepath.Split(loc[0])
			entry.Data["file:line"] = filepath.Join(filepath.Base(dir), file)
		}
		break
	}
	return nil
}
