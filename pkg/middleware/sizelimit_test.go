package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSizeLimitAllowsBodyUnderLimit(t *testing.T) {
	handler := SizeLimit(100)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("unexpected read error: %v", err)
		}
		w.Write(body)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 50)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestSizeLimitRejectsBodyOverLimit(t *testing.T) {
	handler := SizeLimit(10)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := io.ReadAll(r.Body)
		if err == nil {
			t.Fatal("expected a read error for an oversized body")
		}
		converted := AsBodyTooLargeError(err)
		if converted == err {
			t.Fatal("expected AsBodyTooLargeError to recognize the MaxBytesReader error")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 50)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
}

func TestAsBodyTooLargeErrorPassesThroughOtherErrors(t *testing.T) {
	other := io.ErrUnexpectedEOF
	if AsBodyTooLargeError(other) != other {
		t.Fatal("expected an unrelated error to pass through unchanged")
	}
	if AsBodyTooLargeError(nil) != nil {
		t.Fatal("expected nil to pass through as nil")
	}
}
