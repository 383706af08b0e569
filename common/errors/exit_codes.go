package errors

type ExitCode int

const (
	GenericFailureExitCode ExitCode = 1

	// Bad flags, unreadable or invalid configuration.
	ConfigFailureExitCode ExitCode = 64

	// The stats directory could not be prepared.
	StatsDirFailureExitCode ExitCode = 73

	// The run was interrupted before the last day completed.
	AbortedRunExitCode ExitCode = 130
)
