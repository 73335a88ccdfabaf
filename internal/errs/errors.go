// Package errs defines the error taxonomy shared by the bridge packages.
//
// Three classes exist:
//   - configuration errors: a required column, binding, table or credential cannot be resolved
//   - shape errors: a result item matches no recognized dialect
//   - query execution errors: the transport failed for one query
//
// None of them are retried here; retry policy belongs to the transport.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration  = errors.New("configuration error")
	ErrShape          = errors.New("unrecognized result shape")
	ErrQueryExecution = errors.New("query execution failed")
	ErrNoResult       = errors.New("erroneous empty result")
)

// ConfigError reports an unresolvable column, binding, table or setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

// Config is shorthand for building a *ConfigError.
func Config(field, format string, args ...any) error {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ShapeError reports a result item that is neither a plain nor a wrapped vertex/edge.
type ShapeError struct {
	Item    any
	Message string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape error: %s (%T)", e.Message, e.Item)
}

func (e *ShapeError) Unwrap() error {
	return ErrShape
}

// Shape is shorthand for building a *ShapeError.
func Shape(item any, format string, args ...any) error {
	return &ShapeError{Item: item, Message: fmt.Sprintf(format, args...)}
}

// QueryError wraps a transport failure with the query that caused it.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrQueryExecution) match any *QueryError.
func (e *QueryError) Is(target error) bool {
	return target == ErrQueryExecution
}
