package repository

import (
	"fmt"

	"github.com/ValentinKolb/dConcert/lib/concert"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IConcertRepository is the interface for interacting with a concert repository.
// Expected absence is never an error: Get reports it with the boolean,
// Update and Delete return false. Errors are reserved for operational failures
// (a full repository, a broken connection, ...).
type IConcertRepository interface {
	// Create stores a concert and assigns it the next id. Any id carried by
	// the given concert is overwritten. The stored concert is returned.
	// If the repository is full a *Error with RetCCapacityExceeded is returned
	// and the repository is unchanged.
	Create(c concert.Concert) (created concert.Concert, err error)
	// Get returns the concert with the given id. The boolean return value
	// indicates whether a concert was found.
	Get(id int64) (c concert.Concert, loaded bool, err error)
	// Update replaces the stored concert that has the same id as the given one.
	// It returns false (and changes nothing) if no such concert exists or if
	// the given concert has no id.
	Update(c concert.Concert) (updated bool, err error)
	// Delete removes the concert with the given id. It returns false if no
	// such concert exists.
	Delete(id int64) (deleted bool, err error)
	// List returns a snapshot of all stored concerts in no particular order.
	List() (concerts []concert.Concert, err error)
	// Clear removes all concerts and resets id assignment, the next created
	// concert gets id 0 again. Clearing an empty repository succeeds.
	Clear() (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("ConcertRepositoryError (code %s): %s", e.Code, e.Msg)
}

// Is reports whether target is a *Error with the same return code.
// This makes errors.Is(err, ErrCapacityExceeded) work for errors that were
// rebuilt on the client side of an rpc call.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// ErrCapacityExceeded matches every error caused by creating a concert in a full repository
var ErrCapacityExceeded = NewError(RetCCapacityExceeded, "capacity exceeded")

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess          RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                   // 1: Operation failed due to an internal error.
	RetCInvalidOperation                // 2: Invalid operation.
	RetCCapacityExceeded                // 3: The repository already holds the maximum number of concerts.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCCapacityExceeded:
		return "CapacityExceeded"
	default:
		return "Unknown"
	}
}
