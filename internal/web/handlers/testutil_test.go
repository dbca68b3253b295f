package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"emoscan/internal/processor"
	"emoscan/internal/storage"
)

var errTest = errors.New("test failure")

// fakeRunner returns a canned result or error for every process request.
type fakeRunner struct {
	result processor.Result
	err    error
	calls  []processor.Request
}

func (f *fakeRunner) Process(ctx context.Context, req processor.Request) (processor.Result, error) {
	f.calls = append(f.calls, req)
	if req.Progress != nil {
		for i := 1; i <= f.result.FramesProcessed; i++ {
			req.Progress(i)
		}
	}
	return f.result, f.err
}

// fakeBlobs records uploads without touching any backing store.
type fakeBlobs struct {
	uploads []storage.Locator
	err     error
}

func (f *fakeBlobs) Upload(ctx context.Context, srcPath string, dst storage.Locator) error {
	if f.err != nil {
		return f.err
	}
	f.uploads = append(f.uploads, dst)
	return nil
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
