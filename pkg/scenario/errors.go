package scenario

import (
	"errors"
	"fmt"
)

var (
	// ErrNullConfiguration ...
	ErrNullConfiguration = errors.New("compiler configuration must not be null")
	// ErrNullCompiler ...
	ErrNullCompiler = errors.New("compiler must not be null")
	// ErrMissingHashFunction is returned when default HD keys are needed but
	// the configuration lacks a hash function implementation.
	ErrMissingHashFunction = errors.New("missing hash function implementation")
	// ErrUnknownScenario ...
	ErrUnknownScenario = errors.New("unknown scenario")
	// ErrScenarioCycle is returned when a scenario extends itself, directly or
	// through its ancestors.
	ErrScenarioCycle = errors.New("scenario extends itself")
	// ErrUnknownLockingScript is returned when the locking script unlocked by
	// the unlocking script under test is not in the configuration.
	ErrUnknownLockingScript = errors.New("unknown locking script")
	// ErrInvalidStructure is returned when the inputs and source outputs of a
	// scenario can't be matched, or when the script under test is ambiguous.
	ErrInvalidStructure = errors.New("invalid scenario structure")
	// ErrInvalidData is returned when the data of a scenario can't be
	// decoded or compiled.
	ErrInvalidData = errors.New("invalid scenario data")
	// ErrCompilation is returned when an input or output script fails to
	// compile.
	ErrCompilation = errors.New("scenario compilation failed")
)

// Error is a scenario generation error. Its message is meant to be read by
// template authors; Unwrap returns the sentinel error of its category.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

// wrapError prefixes the message of err, keeping err in the chain.
func wrapError(err error, format string, args ...interface{}) *Error {
	return &Error{kind: err, msg: fmt.Sprintf(format, args...) + err.Error()}
}
