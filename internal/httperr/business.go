package httperr

import (
	"errors"
	"fmt"
)

// Kind classifies a BusinessError for callers and for the HTTP mapping.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindValidation        Kind = "validation"
	KindInsufficientStock Kind = "insufficient_stock"
	KindPersistence       Kind = "persistence_failure"
	KindConflict          Kind = "conflict"
	KindUnavailable       Kind = "unavailable"
)

type BusinessError struct {
	Kind   Kind
	Code   string
	Detail string
	Err    error
}

func (e BusinessError) Error() string {
	if e.Detail == "" {
		return e.Code
	}
	return e.Code + ": " + e.Detail
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

// ErrBusiness builds a validation error identified only by its code.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrValidation(code, detail string) error {
	return BusinessError{Kind: KindValidation, Code: code, Detail: detail}
}

func ErrNotFound(code, detail string) error {
	return BusinessError{Kind: KindNotFound, Code: code, Detail: detail}
}

func ErrConflict(code, detail string) error {
	return BusinessError{Kind: KindConflict, Code: code, Detail: detail}
}

// ErrUnavailable reports an external service that failed to answer.
func ErrUnavailable(code, detail string, err error) error {
	return BusinessError{Kind: KindUnavailable, Code: code, Detail: detail, Err: err}
}

// ErrInsufficientStock names the product that would go negative.
func ErrInsufficientStock(productID, productName string) error {
	return BusinessError{
		Kind:   KindInsufficientStock,
		Code:   "insufficient_stock",
		Detail: fmt.Sprintf("estoque insuficiente para o produto %s (%s)", productName, productID),
	}
}

// ErrPersistence wraps a storage failure. Business errors pass through untouched.
func ErrPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var be BusinessError
	if errors.As(err, &be) {
		return err
	}
	return BusinessError{
		Kind:   KindPersistence,
		Code:   "persistence_failure",
		Detail: op,
		Err:    err,
	}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns the kind of err, or "" when err is not a BusinessError.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
