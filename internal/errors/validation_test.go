package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("kind", "must be a valid question kind", "essay")

	if err.Field != "kind" {
		t.Errorf("Expected field to be 'kind', got '%s'", err.Field)
	}
	if err.Message != "must be a valid question kind" {
		t.Errorf("Unexpected message: '%s'", err.Message)
	}
	if err.Value != "essay" {
		t.Errorf("Expected value to be 'essay', got '%v'", err.Value)
	}

	expected := "validation error on field 'kind': must be a valid question kind"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("title", "is required", nil))
	expected := "validation failed: title is required"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("body", "must be at most 5000", nil))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("capacity", "must be at least 1", "min", 0)

	if err.Rule != "min" {
		t.Errorf("Expected rule to be 'min', got '%s'", err.Rule)
	}
	if err.Field != "capacity" {
		t.Errorf("Expected field to be 'capacity', got '%s'", err.Field)
	}
}
