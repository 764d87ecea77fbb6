/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package resterr defines the error envelope returned by the REST API.
package resterr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is the machine-readable code carried in the error envelope.
type ErrorCode string

// Supported error codes.
const (
	SystemError        ErrorCode = "system-error"
	BadRequest         ErrorCode = "bad-request"
	InvalidValue       ErrorCode = "invalid-value"
	DoesntExist        ErrorCode = "doesnt-exist"
	AlreadyExist       ErrorCode = "already-exist"
	ConditionNotMet    ErrorCode = "condition-not-met"
	VerificationFailed ErrorCode = "verification-failed"
)

// Name returns the trimmed code name.
func (c ErrorCode) Name() string {
	return strings.TrimSpace(string(c))
}

// CustomError is the error type rendered into the REST error envelope.
type CustomError struct {
	Code            ErrorCode
	IncorrectValue  string
	Component       string
	FailedOperation string
	Err             error
}

// NewSystemError creates a SystemError scoped to a component operation.
func NewSystemError(component, failedOperation string, err error) *CustomError {
	return &CustomError{
		Code:            SystemError,
		Component:       component,
		FailedOperation: failedOperation,
		Err:             err,
	}
}

// NewValidationError creates an input validation error for the given value.
func NewValidationError(code ErrorCode, incorrectValue string, err error) *CustomError {
	return &CustomError{
		Code:           code,
		IncorrectValue: incorrectValue,
		Err:            err,
	}
}

// NewCustomError creates a CustomError with a bare code.
func NewCustomError(code ErrorCode, err error) *CustomError {
	return &CustomError{
		Code: code,
		Err:  err,
	}
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	if e.Code == SystemError {
		return fmt.Sprintf("%s[%s, %s]: %v", e.Code.Name(), e.Component, e.FailedOperation, e.Err)
	}

	if e.IncorrectValue != "" {
		return fmt.Sprintf("%s[%s]: %v", e.Code.Name(), e.IncorrectValue, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Code.Name(), e.Err)
}

// Unwrap exposes the wrapped cause.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// HTTPCodeMsg maps the error to an HTTP status and a response body.
func (e *CustomError) HTTPCodeMsg() (int, interface{}) {
	var code int

	switch e.Code { //nolint:exhaustive
	case SystemError:
		return http.StatusInternalServerError, map[string]interface{}{
			"code":      SystemError.Name(),
			"component": e.Component,
			"operation": e.FailedOperation,
			"message":   e.Err.Error(),
		}
	case AlreadyExist:
		code = http.StatusConflict
	case DoesntExist:
		code = http.StatusNotFound
	case ConditionNotMet:
		code = http.StatusPreconditionFailed
	case VerificationFailed:
		code = http.StatusUnprocessableEntity
	default:
		code = http.StatusBadRequest
	}

	m := map[string]interface{}{
		"code":    e.Code.Name(),
		"message": e.Err.Error(),
	}

	if e.IncorrectValue != "" {
		m["incorrectValue"] = e.IncorrectValue
	}

	return code, m
}

// GetErrorDetails unwraps err down to the innermost cause message.
func GetErrorDetails(err error) string {
	for {
		cause := errors.Unwrap(err)
		if cause == nil {
			return err.Error()
		}

		err = cause
	}
}
