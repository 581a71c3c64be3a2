// Copyright 2019-2020, Square, Inc.

// Package errors provides errors reported to the user. These are mapped to a
// proto.Error by the API and sent to the user. All errors must implement the
// error interface and return a helpful error message. The message can be terse
// because it will be reported in context. For example, the PlanNotFound
// error message makes sense in response to "yarpm show abc123" when "abc123"
// does not exist.
package errors

import (
	"fmt"
	"time"
)

var _ error = PlanNotFound{}

type PlanNotFound struct {
	PlanId string
}

func (e PlanNotFound) Error() string {
	return fmt.Sprintf("plan %s not found", e.PlanId)
}

// --------------------------------------------------------------------------

var _ error = ApplicationNotFound{}

type ApplicationNotFound struct {
	Name string
}

func (e ApplicationNotFound) Error() string {
	return fmt.Sprintf("application %s not found", e.Name)
}

// --------------------------------------------------------------------------

var _ error = ResourceNotFound{}

type ResourceNotFound struct {
	Name string
}

func (e ResourceNotFound) Error() string {
	return fmt.Sprintf("computer %s not found", e.Name)
}

// --------------------------------------------------------------------------

var _ error = DbError{}

// Error represents a generic database error. This struct is not superfluous,
// it allows the API to distinguish the error type and return an appropriate
// proto.Error.
type DbError struct {
	err   error
	query string
}

func NewDbError(err error, query string) DbError {
	return DbError{err: err, query: query}
}

func (e DbError) Error() string {
	return fmt.Sprintf("database error: %s (%s)", e.err, e.query)
}

// --------------------------------------------------------------------------

var _ error = ErrInvalidCreatePlan{}

type ErrInvalidCreatePlan struct {
	Message string
}

func (e ErrInvalidCreatePlan) Error() string {
	return e.Message
}

// --------------------------------------------------------------------------

var _ error = ErrResolveTimeout{}

// ErrResolveTimeout is returned when a resolution takes longer than the
// configured planner timeout. The resolution is abandoned, not interrupted:
// it finishes in the background and its result is discarded.
type ErrResolveTimeout struct {
	Application string
	Timeout     time.Duration
}

func (e ErrResolveTimeout) Error() string {
	return fmt.Sprintf("resolving application %s took longer than %s", e.Application, e.Timeout)
}

// --------------------------------------------------------------------------

var _ error = ErrSaveFailed{}

type ErrSaveFailed struct {
	Application string
}

func (e ErrSaveFailed) Error() string {
	return fmt.Sprintf("cannot save application %s", e.Application)
}

// --------------------------------------------------------------------------

var _ error = ValidationError{}

// ValidationError is returned when a request payload or query is invalid.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}
