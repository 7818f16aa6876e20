package resp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ncobase/pagination/data/search"
	"github.com/ncobase/pagination/ecode"
	"github.com/ncobase/pagination/validator"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"parse", ecode.ParseError("filter", nil), http.StatusBadRequest, CodeParse},
		{"invalid", ecode.InvalidArgument("page_size", -1), http.StatusBadRequest, CodeInvalidArgument},
		{"validation", validator.Errors{"engine": "bad"}, http.StatusBadRequest, CodeInvalidArgument},
		{"not found", ecode.NoSuchObject("x"), http.StatusNotFound, CodeNotFound},
		{"backend", fmt.Errorf("wrapped: %w", ecode.NewBackendError("boom", "raw body")), http.StatusBadGateway, CodeBackend},
		{"no engine", search.ErrNoEngineAvailable, http.StatusServiceUnavailable, CodeUnavailable},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, CodeServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := FromError(tt.err)
			if e.Status != tt.status || e.Code != tt.code {
				t.Errorf("FromError() = %d %s, want %d %s", e.Status, e.Code, tt.status, tt.code)
			}
		})
	}

	if FromError(nil) != nil {
		t.Error("FromError(nil) should be nil")
	}
	if e := FromError(ecode.NewBackendError("boom", "raw body")); e.Debug != "raw body" || e.Message != "boom" {
		t.Errorf("backend exception = %+v", e)
	}
}

func TestWriters(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, map[string]int{"total": 3})
	if w.Code != http.StatusOK || w.Body.String() != "{\"total\":3}\n" {
		t.Errorf("Success() = %d %q", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	w = httptest.NewRecorder()
	Error(w, ecode.NoSuchObject("abc"))
	var body Exception
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusNotFound || body.Code != CodeNotFound {
		t.Errorf("Error() = %d %+v", w.Code, body)
	}

	w = httptest.NewRecorder()
	Fail(w, nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Fail(nil) status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	WithStatusCode(w, http.StatusAccepted, nil)
	if w.Code != http.StatusAccepted || w.Body.String() != "{\"message\":\"ok\"}\n" {
		t.Errorf("WithStatusCode() = %d %q", w.Code, w.Body.String())
	}
}
