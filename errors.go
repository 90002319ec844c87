package ppool

import "errors"

const Namespace = "ppool"

var (
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")
	ErrTaskPanicked  = errors.New(Namespace + ": task execution panicked")
)
