package metz

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteCommand is returned when a key code could not be delivered to the set
	ErrRemoteCommand = errors.New("remote command failed")

	// ErrMacResolution is returned when the hardware address of the set is unknown,
	// so no Wake-on-LAN packet can be addressed
	ErrMacResolution = errors.New("mac address could not be resolved")

	// ErrUnknownCommand is returned for command names that map to no key code
	ErrUnknownCommand = errors.New("unknown command")
)

// CommandError carries the failure kind and the underlying cause of a failed operation.
// Callers match on the kind with errors.Is; the cause is only for diagnostics.
type CommandError struct {
	Kind error
	Host string
	Code KeyCode
	Err  error
}

func (e *CommandError) Error() string {
	switch {
	case e.Kind == ErrRemoteCommand && e.Err != nil:
		return fmt.Sprintf("%v: key %d to %s: %v", e.Kind, e.Code, e.Host, e.Err)
	case e.Kind == ErrRemoteCommand:
		return fmt.Sprintf("%v: key %d to %s", e.Kind, e.Code, e.Host)
	case e.Err != nil:
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Host, e.Err)
	default:
		return fmt.Sprintf("%v: %s", e.Kind, e.Host)
	}
}

// Is reports whether target is the failure kind of this error
func (e *CommandError) Is(target error) bool {
	return target == e.Kind
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode maps a failure kind to the process exit status used by the CLI
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrRemoteCommand):
		return 2
	case errors.Is(err, ErrMacResolution):
		return 3
	default:
		return 1
	}
}
