package compiler

import (
	"fmt"
	"strings"
)

// Compiler turns a script of a Configuration into bytecode.
//
// Implementations must be free of side effects: scenario generation calls
// GenerateBytecode many times per scenario, possibly from several goroutines
// when generating different scenarios of the same configuration.
type Compiler interface {
	GenerateBytecode(
		scriptID string,
		data CompilationData,
		configuration *Configuration,
		debug bool,
	) *CompilationResult
}

// CompilerFunc adapts a plain function to the Compiler interface.
type CompilerFunc func(
	scriptID string,
	data CompilationData,
	configuration *Configuration,
	debug bool,
) *CompilationResult

// GenerateBytecode calls f.
func (f CompilerFunc) GenerateBytecode(
	scriptID string,
	data CompilationData,
	configuration *Configuration,
	debug bool,
) *CompilationResult {
	return f(scriptID, data, configuration, debug)
}

// Range locates a portion of script source. Lines and columns start at 1.
type Range struct {
	StartLine   int `json:"startLineNumber"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLineNumber"`
	EndColumn   int `json:"endColumn"`
}

// CompilationError is an error reported by a Compiler.
type CompilationError struct {
	Message string `json:"error"`
	Range   Range  `json:"range"`
}

func (e CompilationError) Error() string {
	return e.Message
}

// Sample is the bytecode produced by one top-level portion of a script. A
// Compiler only reports samples when debugging is requested.
type Sample struct {
	Range    Range  `json:"range"`
	Source   string `json:"source"`
	Bytecode []byte `json:"bytecode"`
}

// CompilationResult is the outcome of a compilation: either Success with the
// resulting Bytecode or a list of Errors.
type CompilationResult struct {
	Success  bool               `json:"success"`
	Bytecode []byte             `json:"bytecode,omitempty"`
	Errors   []CompilationError `json:"errors,omitempty"`
	Samples  []Sample           `json:"samples,omitempty"`
}

// NewSuccess returns a successful result.
func NewSuccess(bytecode []byte) *CompilationResult {
	return &CompilationResult{Success: true, Bytecode: bytecode}
}

// NewFailure returns a failed result holding a single error with no range.
func NewFailure(format string, args ...interface{}) *CompilationResult {
	return &CompilationResult{
		Errors: []CompilationError{{Message: fmt.Sprintf(format, args...)}},
	}
}

// StringifyErrors formats errors as "[line, column] message", joined by "; ".
func StringifyErrors(errs []CompilationError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf(
			"[%d, %d] %s", e.Range.StartLine, e.Range.StartColumn, e.Message,
		))
	}
	return strings.Join(msgs, "; ")
}
