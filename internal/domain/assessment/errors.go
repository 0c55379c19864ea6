package assessment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrQuotaExceeded     = errors.New("monthly assessment quota exceeded")
	ErrMalformedAnalysis = errors.New("malformed analysis")
	ErrValidation        = errors.New("analysis failed validation")
)

const (
	StageEmpty  = "empty"
	StageParse  = "parse"
	StageRepair = "repair"
)

type MalformedError struct {
	Stage   string
	Snippet string
	Cause   error
}

func (e *MalformedError) Error() string {
	msg := "malformed analysis at " + e.Stage
	if e.Snippet != "" {
		msg += fmt.Sprintf(" (%q)", e.Snippet)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformedAnalysis
}

func (e *MalformedError) Unwrap() error {
	return e.Cause
}

type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "analysis missing required fields: " + strings.Join(e.Missing, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
