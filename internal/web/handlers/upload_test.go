package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// multipartVideo builds a multipart body with a video file and optional destination.
func multipartVideo(t *testing.T, filename, destination string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if destination != "" {
		if err := writer.WriteField("destination", destination); err != nil {
			t.Fatal(err)
		}
	}
	part, err := writer.CreateFormFile("video", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("mp4-bytes"))
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func TestUploadDefaultDestination(t *testing.T) {
	blobs := &fakeBlobs{}
	h := NewUploadHandler(blobs, t.TempDir())

	body, contentType := multipartVideo(t, "party.mp4", "")
	req := httptest.NewRequest("POST", "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()

	h.Upload(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var result map[string]string
	parseJSONResponse(t, recorder, &result)
	if result["filename"] != "party.mp4" {
		t.Errorf("filename = %q, want party.mp4", result["filename"])
	}
	if !strings.HasSuffix(result["locator"], ".mp4") {
		t.Errorf("locator = %q, want an .mp4 path", result["locator"])
	}

	if len(blobs.uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(blobs.uploads))
	}
	if blobs.uploads[0].IsS3() {
		t.Errorf("default destination = %s, want a local path", blobs.uploads[0])
	}
}

func TestUploadExplicitDestination(t *testing.T) {
	blobs := &fakeBlobs{}
	h := NewUploadHandler(blobs, t.TempDir())

	body, contentType := multipartVideo(t, "clip.mp4", "s3://videos/incoming/clip.mp4")
	req := httptest.NewRequest("POST", "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()

	h.Upload(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	if len(blobs.uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(blobs.uploads))
	}
	if got := blobs.uploads[0].String(); got != "s3://videos/incoming/clip.mp4" {
		t.Errorf("destination = %q", got)
	}
}

func TestUploadMissingFile(t *testing.T) {
	h := NewUploadHandler(&fakeBlobs{}, t.TempDir())

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.Close()

	req := httptest.NewRequest("POST", "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	recorder := httptest.NewRecorder()

	h.Upload(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "video file is required")
}

func TestUploadMalformedDestination(t *testing.T) {
	h := NewUploadHandler(&fakeBlobs{}, t.TempDir())

	body, contentType := multipartVideo(t, "clip.mp4", "s3://broken")
	req := httptest.NewRequest("POST", "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()

	h.Upload(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
}

func TestUploadStoreFailure(t *testing.T) {
	h := NewUploadHandler(&fakeBlobs{err: errTest}, t.TempDir())

	body, contentType := multipartVideo(t, "clip.mp4", "")
	req := httptest.NewRequest("POST", "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()

	h.Upload(recorder, req)

	assertStatusCode(t, recorder, http.StatusInternalServerError)
}
