// Package errors holds the typed errors returned or raised by the scheduler.
package errors

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	goerrors "github.com/go-errors/errors"
)

// ContractViolationError reports a broken scheduler invariant: a job run while
// it still had pending dependencies, a job pulled from a collection it was not
// in, an edge added after the prerequisite was submitted. It is always raised
// with panic and carries the stack of the violating call.
type ContractViolationError struct {
	Component string
	Operation string
	Invariant string
	err       *goerrors.Error
}

// Frames of these packages are never the location of a violation.
var skippedPackages = []string{
	reflect.TypeOf(ContractViolationError{}).PkgPath() + ".",
	reflect.TypeOf(goerrors.Error{}).PkgPath() + ".",
}

// NewContractViolation builds a ContractViolationError located at the caller
// of NewContractViolation.
func NewContractViolation(component, operation, invariant string) *ContractViolationError {
	return newContractViolation(component, operation, invariant)
}

// newContractViolation records the whole stack, this package's frames
// included; Location skips them.
func newContractViolation(component, operation, invariant string) *ContractViolationError {
	msg := fmt.Sprintf("%s.%s: %s", component, operation, invariant)
	return &ContractViolationError{
		Component: component,
		Operation: operation,
		Invariant: invariant,
		err:       goerrors.Wrap(msg, 0),
	}
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("contract violation in %s.%s: %s", e.Component, e.Operation, e.Invariant)
}

// Location returns "file:line" of the call that broke the contract: the
// first frame outside this package.
func (e *ContractViolationError) Location() string {
	frames := runtime.CallersFrames(e.err.Callers())
	for {
		f, more := frames.Next()
		if f.Function != "" && !skipped(f.Function) {
			return fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		if !more {
			return "unknown"
		}
	}
}

// ErrorStack returns the message followed by the captured call stack.
func (e *ContractViolationError) ErrorStack() string {
	return e.Error() + "\n" + string(e.err.Stack())
}

func skipped(function string) bool {
	for _, p := range skippedPackages {
		if strings.HasPrefix(function, p) {
			return true
		}
	}
	return false
}

// Assert panics with a ContractViolationError when cond is false.
func Assert(cond bool, component, operation, invariant string) {
	if cond {
		return
	}
	panic(newContractViolation(component, operation, invariant))
}

func IsContractViolation(err error) bool {
	var e *ContractViolationError
	return errors.As(err, &e)
}

type NoWorkersError struct{}

func NewNoWorkersError() *NoWorkersError {
	return &NoWorkersError{}
}

func (e *NoWorkersError) Error() string {
	return "no live workers to accept the job"
}

func IsNoWorkersError(err error) bool {
	var e *NoWorkersError
	return errors.As(err, &e)
}

// PayloadError wraps the error returned by a job payload together with the
// worker that was running it. A payload error ends that worker's loop.
type PayloadError struct {
	Worker int
	Err    error
}

func NewPayloadError(worker int, err error) *PayloadError {
	return &PayloadError{Worker: worker, Err: err}
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("worker %d: job payload failed: %v", e.Worker, e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

func IsPayloadError(err error) bool {
	var e *PayloadError
	return errors.As(err, &e)
}

type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func NewInvalidConfigurationError(field, reason string) *InvalidConfigurationError {
	return &InvalidConfigurationError{Field: field, Reason: reason}
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Field, e.Reason)
}

func IsInvalidConfigurationError(err error) bool {
	var e *InvalidConfigurationError
	return errors.As(err, &e)
}
