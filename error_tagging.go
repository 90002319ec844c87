package ppool

import (
	"errors"
	"fmt"
)

// TaskIndexError exposes the input position of a failed task.
type TaskIndexError interface {
	error
	Unwrap() error
	TaskIndex() int
}

type taskIndexedError struct {
	err   error
	index int
}

func newTaskIndexedError(err error, index int) error {
	if err == nil {
		return nil
	}
	return &taskIndexedError{err: err, index: index}
}

func (e *taskIndexedError) Error() string {
	return fmt.Sprintf("task %d: %s", e.index, e.err.Error())
}

func (e *taskIndexedError) Unwrap() error { return e.err }

func (e *taskIndexedError) TaskIndex() int { return e.index }

// ExtractTaskIndex returns the input index carried by err, if any.
func ExtractTaskIndex(err error) (int, bool) {
	var tie TaskIndexError
	if errors.As(err, &tie) {
		return tie.TaskIndex(), true
	}
	return 0, false
}
