package trace

import (
	"errors"
	"fmt"
)

// ScenarioError reports a malformed scenario.
//
// Only structural problems are errors: references to undeclared actions,
// unknown operations, invalid kinds. Expectation failures during a run
// are part of the Result, never a ScenarioError.
type ScenarioError struct {
	// Code identifies the error category.
	Code ScenarioErrorCode

	// Message is a human-readable description.
	Message string

	// Step is the offending step index, or -1 for declaration errors.
	Step int

	// Ref names the offending action reference or op, if any.
	Ref string
}

// ScenarioErrorCode categorizes scenario errors.
type ScenarioErrorCode string

const (
	// ErrCodeUnknownAction indicates a step references an undeclared action.
	ErrCodeUnknownAction ScenarioErrorCode = "UNKNOWN_ACTION"

	// ErrCodeUnknownOp indicates a step uses an unrecognized op.
	ErrCodeUnknownOp ScenarioErrorCode = "UNKNOWN_OP"

	// ErrCodeDuplicateAction indicates two declarations share an ID.
	ErrCodeDuplicateAction ScenarioErrorCode = "DUPLICATE_ACTION"

	// ErrCodeInvalidKind indicates a declaration uses an invalid kind.
	ErrCodeInvalidKind ScenarioErrorCode = "INVALID_KIND"

	// ErrCodeMissingField indicates a step omits a required field.
	ErrCodeMissingField ScenarioErrorCode = "MISSING_FIELD"

	// ErrCodeUnbalancedBegin indicates a begin step with mutations still
	// pending since the last commit or rollback.
	ErrCodeUnbalancedBegin ScenarioErrorCode = "UNBALANCED_BEGIN"
)

// Error implements the error interface.
func (e *ScenarioError) Error() string {
	if e.Step >= 0 {
		return fmt.Sprintf("%s: %s (step=%d, ref=%q)", e.Code, e.Message, e.Step, e.Ref)
	}
	if e.Ref != "" {
		return fmt.Sprintf("%s: %s (ref=%q)", e.Code, e.Message, e.Ref)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsScenarioError reports whether err is a ScenarioError with the given
// code. Uses errors.As to handle wrapped errors.
func IsScenarioError(err error, code ScenarioErrorCode) bool {
	var se *ScenarioError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
