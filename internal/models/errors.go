package models

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrFormNotValidated  = errors.New("username is not validated")
	ErrInvalidPolicy     = errors.New("invalid cleanup policy")
	ErrAlreadyInProgress = errors.New("action already in progress")
)

// APIError is returned by the StreamVault client for non-2xx responses.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("streamvault api error: status %d: %s", e.Status, e.Message)
}

// ErrorBody covers the error shapes the API answers with.
type ErrorBody struct {
	Error   string `json:"error"`
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

func (b ErrorBody) Text() string {
	switch {
	case b.Detail != "":
		return b.Detail
	case b.Error != "":
		return b.Error
	}
	return b.Message
}
