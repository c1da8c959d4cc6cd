package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reprolabs/verdict/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("field is required")

	if err.Error() != "field is required" {
		t.Errorf("expected 'field is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := apperr.NewValidationWrap("invalid rubric", inner)

	if err.Error() != "invalid rubric: parse failed" {
		t.Errorf("expected 'invalid rubric: parse failed', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("weights must sum to 1")

	wrapped := fmt.Errorf("failed to save: %w", original)
	doubleWrapped := fmt.Errorf("storage error: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "weights must sum to 1" {
		t.Errorf("expected 'weights must sum to 1', got %q", ve.Message)
	}
}

func TestNotFoundError(t *testing.T) {
	err := apperr.NewNotFound("rubric not found")
	wrapped := fmt.Errorf("get rubric: %w", err)

	var nfe *apperr.NotFoundError
	if !errors.As(wrapped, &nfe) {
		t.Fatal("errors.As should find NotFoundError through wrapping")
	}
	if nfe.Message != "rubric not found" {
		t.Errorf("unexpected message: %q", nfe.Message)
	}
}

func TestConflictError(t *testing.T) {
	err := apperr.NewConflict("rubric already exists")
	if err.Error() != "rubric already exists" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	var ce *apperr.ConflictError
	if !errors.As(fmt.Errorf("create: %w", err), &ce) {
		t.Fatal("errors.As should find ConflictError")
	}
}

func TestTypedErrors_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("database connection failed")
	wrapped := fmt.Errorf("storage error: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}
	var nfe *apperr.NotFoundError
	if errors.As(wrapped, &nfe) {
		t.Fatal("errors.As should NOT find NotFoundError in plain error chain")
	}
}
