package snapshot

import (
	"fmt"
)

// SourceErrorType represents the category of snapshot acquisition error
type SourceErrorType int

const (
	// SourceErrExec indicates the command could not be started
	SourceErrExec SourceErrorType = iota
	// SourceErrExitStatus indicates the command ran but reported failure
	SourceErrExitStatus
	// SourceErrEncoding indicates the output was not valid UTF-8
	SourceErrEncoding
	// SourceErrRead indicates a snapshot file could not be read
	SourceErrRead
	// SourceErrTimeout indicates the command did not finish in time
	SourceErrTimeout
)

func (e SourceErrorType) String() string {
	switch e {
	case SourceErrExec:
		return "Exec"
	case SourceErrExitStatus:
		return "ExitStatus"
	case SourceErrEncoding:
		return "Encoding"
	case SourceErrRead:
		return "Read"
	case SourceErrTimeout:
		return "Timeout"
	default:
		return "UnknownError"
	}
}

// SourceError reports a failure to obtain snapshot text
type SourceError struct {
	Type   SourceErrorType
	Path   string
	Status int // exit status, for SourceErrExitStatus
	Cause  error
}

func (e *SourceError) Error() string {
	switch e.Type {
	case SourceErrExec:
		return fmt.Sprintf("failed to execute %s: %v", e.Path, e.Cause)
	case SourceErrExitStatus:
		if e.Cause != nil {
			return fmt.Sprintf("failed to get routing table: %s exited with status %d: %v", e.Path, e.Status, e.Cause)
		}
		return fmt.Sprintf("failed to get routing table: %s exited with status %d", e.Path, e.Status)
	case SourceErrEncoding:
		return fmt.Sprintf("%s output is not valid UTF-8", e.Path)
	case SourceErrRead:
		return fmt.Sprintf("failed to read routing table snapshot %s: %v", e.Path, e.Cause)
	case SourceErrTimeout:
		return fmt.Sprintf("%s did not finish in time: %v", e.Path, e.Cause)
	default:
		return fmt.Sprintf("snapshot source %s failed: %v", e.Path, e.Cause)
	}
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns true if the error condition might be temporary
func (e *SourceError) IsRetryable() bool {
	return e.Type == SourceErrTimeout || e.Type == SourceErrExitStatus
}
