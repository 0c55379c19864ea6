package usecase

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrAssessmentInProgress = errors.New("assessment already in progress")
	ErrOracleUnavailable    = errors.New("assessment oracle unavailable")
	ErrMalformedResponse    = errors.New("malformed oracle response")
)
