// Package validation provides common validation utilities for the tickflow library.
package validation

import (
	"math"

	tferrors "github.com/vnykmshr/tickflow/pkg/common/errors"
)

// ValidatePositive validates that an integer value is positive (> 0).
// Returns a ValidationError if the value is not positive.
func ValidatePositive(module, field string, value int) error {
	if value <= 0 {
		return tferrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateNonNegative validates that a numeric value is non-negative (>= 0).
// NaN is rejected. Returns a ValidationError otherwise.
func ValidateNonNegative(module, field string, value float64) error {
	if math.IsNaN(value) {
		return tferrors.NewValidationError(module, field, value, "must be a number").
			WithHint("use 0 or a positive value")
	}
	if value < 0 {
		return tferrors.NewValidationError(module, field, value, "cannot be negative").
			WithHint("use 0 or a positive value")
	}
	return nil
}

// ValidatePositiveFloat validates that a float64 value is positive (> 0) and finite.
// Returns a ValidationError if the value is not positive.
func ValidatePositiveFloat(module, field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 1) {
		return tferrors.NewValidationError(module, field, value, "must be a finite number").
			WithHint("value must be greater than 0")
	}
	if value <= 0 {
		return tferrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateFinite validates that a float64 value is neither NaN nor infinite.
func ValidateFinite(module, field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return tferrors.NewValidationError(module, field, value, "must be a finite number").
			WithHint("use a number of seconds")
	}
	return nil
}

// ValidateNotNil validates that an interface value is not nil.
// Returns a ValidationError if the value is nil.
func ValidateNotNil(module, field string, value interface{}) error {
	if value == nil {
		return tferrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
// Returns a ValidationError if the string is empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return tferrors.NewValidationError(module, field, value, "cannot be empty").
			WithHint("provide a non-empty " + field)
	}
	return nil
}
