// Package llm adapts external language model providers to a single
// Completer contract whose outcome is an explicit Result instead of an error.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is reported when a provider answers without any text.
var ErrEmptyResponse = errors.New("empty response from provider")

// Result is the outcome of one completion: either Text on success or Err
// describing why the call failed.
type Result struct {
	Text string
	Err  error
}

// OK reports whether the completion succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Success builds a successful Result.
func Success(text string) Result {
	return Result{Text: text}
}

// Failure builds a failed Result.
func Failure(err error) Result {
	return Result{Err: err}
}

// Completer sends a single user message to a model and returns its answer.
// Implementations make exactly one request and never retry.
type Completer interface {
	Complete(ctx context.Context, model, prompt string) Result
}
