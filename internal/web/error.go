package web

import (
	"errors"

	"binheap/internal/pkg/binomial"
	"binheap/internal/session"
	"binheap/internal/web/jsonrpc"
)

func CodeError(code jsonrpc.ErrorCode, err error) error {
	return resError{error: err, code: code}
}

type resError struct {
	error
	code jsonrpc.ErrorCode
}

func (r resError) AppErrCode() jsonrpc.ErrorCode {
	return r.code
}

func (r resError) Unwrap() error {
	return r.error
}

const (
	CodeHeapNotFound jsonrpc.ErrorCode = iota + 1
	CodeHeapExists
	CodeLabelNotFound
	CodeLabelExists
	CodeEmptyHeap
	CodeInvalidKeyType
	CodeInvalidKeyDecrease
	CodeInvalidUnion
	CodeLimitReached
	CodeCorrupted
)

var codes = []struct {
	err  error
	code jsonrpc.ErrorCode
}{
	{session.ErrHeapNotFound, CodeHeapNotFound},
	{session.ErrHeapExists, CodeHeapExists},
	{session.ErrLabelNotFound, CodeLabelNotFound},
	{session.ErrLabelExists, CodeLabelExists},
	{binomial.ErrEmptyHeap, CodeEmptyHeap},
	{binomial.ErrInvalidKeyType, CodeInvalidKeyType},
	{binomial.ErrInvalidKeyDecrease, CodeInvalidKeyDecrease},
	{session.ErrSelfUnion, CodeInvalidUnion},
	{session.ErrTooManyHeaps, CodeLimitReached},
	{binomial.ErrCorrupted, CodeCorrupted},
}

// appError attaches the application code of a known session or heap error.
func appError(err error) error {
	if err == nil {
		return nil
	}

	for _, c := range codes {
		if errors.Is(err, c.err) {
			return CodeError(c.code, err)
		}
	}

	return err
}
