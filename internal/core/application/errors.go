package application

import "errors"

var (
	// ErrNullTemplate ...
	ErrNullTemplate = errors.New("template must not be null")
	// ErrNullCompiler ...
	ErrNullCompiler = errors.New("compiler must not be null")
	// ErrInvalidConcurrency ...
	ErrInvalidConcurrency = errors.New("concurrency must be greater than 0")
	// ErrInvalidFeeRate ...
	ErrInvalidFeeRate = errors.New("fee rate must not be negative")
)
