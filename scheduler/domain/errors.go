package domain

import (
	"github.com/pkg/errors"
)

var (
	// No node currently has room for the job. Retry on a later cycle.
	ErrNoCapacityAvailable = errors.New("no capacity available")

	// The job's demand exceeds the total capacity of every node.
	ErrUnsatisfiable = errors.New("unsatisfiable resource demand")

	// The job has a non-positive demand or bad arrival metadata.
	ErrInvalidJobSpec = errors.New("invalid job spec")

	// The job is already queued, or has left the Queued state.
	ErrAlreadySubmitted = errors.New("job already submitted")

	// No statistics were recorded for the requested day.
	ErrUnknownDay = errors.New("unknown day")
)

func IsNoCapacity(err error) bool {
	return err != nil && errors.Cause(err) == ErrNoCapacityAvailable
}

func IsUnsatisfiable(err error) bool {
	return err != nil && errors.Cause(err) == ErrUnsatisfiable
}

func IsInvalidJobSpec(err error) bool {
	return err != nil && errors.Cause(err) == ErrInvalidJobSpec
}

func IsUnknownDay(err error) bool {
	return err != nil && errors.Cause(err) == ErrUnknownDay
}

func IsAlreadySubmitted(err error) bool {
	return err != nil && errors.Cause(err) == ErrAlreadySubmitted
}
