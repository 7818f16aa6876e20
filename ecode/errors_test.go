package ecode

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestBackendErrorUnwrapsToErrBackend(t *testing.T) {
	err := fmt.Errorf("paged: %w", NewBackendError("search_phase_execution_exception", ""))

	if !errors.Is(err, ErrBackend) {
		t.Fatalf("expected ErrBackend in chain, got %v", err)
	}

	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatal("expected *BackendError in chain")
	}
	if be.Debug != "No Debug Information" {
		t.Errorf("expected default debug detail, got %q", be.Debug)
	}
	if !strings.Contains(be.Error(), "search_phase_execution_exception\nNo Debug Information") {
		t.Errorf("unexpected message %q", be.Error())
	}
}

func TestSentinelHelpers(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"invalid argument", InvalidArgument("page number", -1), ErrInvalidArgument},
		{"parse", ParseError("filter", errors.New("boom")), ErrParse},
		{"parse without cause", ParseError("filter", nil), ErrParse},
		{"not found", NoSuchObject("42"), ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("expected %v to wrap %v", tt.err, tt.want)
			}
		})
	}
}

func TestIsAlreadyExists(t *testing.T) {
	if !IsAlreadyExists("resource_already_exists_exception: index [books/abc] already exists") {
		t.Error("expected elasticsearch message to match")
	}
	if IsAlreadyExists("index_not_found_exception") {
		t.Error("did not expect not found message to match")
	}
}
