// Package validation checks API request payloads and configuration values.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRequest marks every request rejected by this package, so the
// HTTP layer can map it to 400.
var ErrInvalidRequest = errors.New("invalid request")

var (
	// validate is a singleton validator instance
	validate = validator.New()

	MaxTargets      = 10000
	MaxSteps        = 64
	MaxEdgesPerStep = 10000
	MaxPaths        = 1000
)

// Target selection strategies for attack requests without explicit targets.
const (
	SelectExplicit = "explicit"
	SelectFlow     = "flow"
	SelectPaths    = "paths"
	SelectCapacity = "capacity"
)

// EdgeRef names an edge by node id.
type EdgeRef struct {
	From int `json:"from" validate:"min=0"`
	To   int `json:"to" validate:"min=0"`
}

// BudgetedAttackRequest is the body of POST /attack/budgeted.
type BudgetedAttackRequest struct {
	Targets []EdgeRef `json:"targets" validate:"omitempty,max=10000,dive"`
	Budget  *int64    `json:"budget" validate:"omitempty,min=0"`
	Select  string    `json:"select" validate:"omitempty,oneof=explicit flow paths capacity"`
	Flag    *int      `json:"flag" validate:"omitempty,min=-1"`
}

// MultiStepAttackRequest is the body of POST /attack/multi-step.
type MultiStepAttackRequest struct {
	Targets      []EdgeRef `json:"targets" validate:"omitempty,max=10000,dive"`
	Steps        *int      `json:"steps" validate:"omitempty,min=0,max=64"`
	EdgesPerStep int       `json:"edgesPerStep" validate:"omitempty,min=1,max=10000"`
	Select       string    `json:"select" validate:"omitempty,oneof=explicit flow paths capacity"`
	Flag         *int      `json:"flag" validate:"omitempty,min=-1"`
}

// JumpRequest is the body of POST /jump. Node is a label ("N7"), a numeric
// id, or one of "source" and "target".
type JumpRequest struct {
	Node string `json:"node" validate:"required,max=32"`
}

// FocusRequest changes the flow endpoints.
type FocusRequest struct {
	Source int `json:"source" validate:"min=0"`
	Target int `json:"target" validate:"min=0,nefield=Source"`
}

// Struct validates any request struct by its tags.
func Struct(req any) error {
	if req == nil {
		return fmt.Errorf("%w: request cannot be nil", ErrInvalidRequest)
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateBudgetedAttack validates a budgeted attack request.
func ValidateBudgetedAttack(req *BudgetedAttackRequest) error {
	if req == nil {
		return fmt.Errorf("%w: budgeted attack request cannot be nil", ErrInvalidRequest)
	}
	if err := Struct(req); err != nil {
		return err
	}
	return checkSelection(req.Select, len(req.Targets))
}

// ValidateMultiStepAttack validates a multi-step attack request.
func ValidateMultiStepAttack(req *MultiStepAttackRequest) error {
	if req == nil {
		return fmt.Errorf("%w: multi-step attack request cannot be nil", ErrInvalidRequest)
	}
	if err := Struct(req); err != nil {
		return err
	}
	return checkSelection(req.Select, len(req.Targets))
}

// checkSelection rejects explicit targets combined with a computed strategy.
func checkSelection(sel string, targets int) error {
	if targets > 0 && sel != "" && sel != SelectExplicit {
		return fmt.Errorf("%w: Select: %q cannot be combined with explicit targets", ErrInvalidRequest, sel)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	// Report the first failure only
	e := validationErrs[0]
	field := e.Field()
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Errorf("%w: %s: field is required", ErrInvalidRequest, field)
	case "min":
		return fmt.Errorf("%w: %s: must be at least %s", ErrInvalidRequest, field, param)
	case "max":
		return fmt.Errorf("%w: %s: must not exceed %s", ErrInvalidRequest, field, param)
	case "oneof":
		return fmt.Errorf("%w: %s: must be one of [%s]", ErrInvalidRequest, field, param)
	case "nefield":
		return fmt.Errorf("%w: %s: must differ from %s", ErrInvalidRequest, field, param)
	default:
		return fmt.Errorf("%w: %s: validation failed (%s)", ErrInvalidRequest, field, e.Tag())
	}
}
