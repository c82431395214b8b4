package gpu

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrEnvironmentUnmet marks failures caused by a missing layer, extension,
	// feature or adapter.
	ErrEnvironmentUnmet = errors.New("environment does not meet requirements")

	// ErrBackendCallFailed marks failures reported by a backend round-trip.
	ErrBackendCallFailed = errors.New("graphics backend call failed")
)

// OpError names the backend call or capability behind a failure.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// CallFailed wraps an error returned by the backend call op.
func CallFailed(op string, err error) error {
	return errors.Mark(errors.WithStackDepth(&OpError{Op: op + "()", Err: err}, 1), ErrBackendCallFailed)
}

// Unmet reports that the capability op is not available.
func Unmet(op string, format string, args ...interface{}) error {
	return errors.Mark(errors.WithStackDepth(&OpError{Op: op, Err: errors.Newf(format, args...)}, 1), ErrEnvironmentUnmet)
}

func Kind(err error) string {
	switch {
	case errors.Is(err, ErrEnvironmentUnmet):
		return "environment_unmet"
	case errors.Is(err, ErrBackendCallFailed):
		return "backend_call_failed"
	default:
		return "unknown"
	}
}

// Fatal logs a diagnostic naming the failed operation and terminates the
// process through log.
func Fatal(log logrus.FieldLogger, err error) {
	fields := logrus.Fields{"kind": Kind(err)}
	var opErr *OpError
	if errors.As(err, &opErr) {
		fields["operation"] = opErr.Op
	}
	log.WithFields(fields).Fatalf("%v", err)
}
