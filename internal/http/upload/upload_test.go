package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/Sonukathat/shiwansh-project/internal/blob/fs"
)

var gifBytes = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")

func newUploader(t *testing.T, maxBytes int64) *Uploader {
	t.Helper()
	store, err := fs.New(t.TempDir())
	if err != nil {
		t.Fatalf("fs.New: %v", err)
	}
	return New(store, maxBytes)
}

func formRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "India")
	if content != nil {
		fw, err := mw.CreateFormFile("image", filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = fw.Write(content)
	}
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSaveStoresImage(t *testing.T) {
	up := newUploader(t, 1<<20)
	req := formRequest(t, "Flag.GIF", gifBytes)
	if err := up.ParseForm(httptest.NewRecorder(), req); err != nil {
		t.Fatalf("ParseForm: %v", err)
	}

	key, err := up.Save(context.Background(), req, "image", "countries")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !regexp.MustCompile(`^countries/[0-9a-f-]{36}\.gif$`).MatchString(key) {
		t.Fatalf("unexpected key %q", key)
	}

	info, body, err := up.Store().Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer body.Close()
	got, _ := io.ReadAll(body)
	if !bytes.Equal(got, gifBytes) || info.ContentType != "image/gif" {
		t.Fatalf("stored %q as %q", got, info.ContentType)
	}
	if info.Metadata["filename"] != "Flag.GIF" {
		t.Fatalf("metadata = %v", info.Metadata)
	}

	up.Remove(context.Background(), key)
	if _, _, err := up.Store().Get(context.Background(), key); err == nil {
		t.Fatalf("expected blob to be removed")
	}
	// Removing twice, or nothing, is harmless.
	up.Remove(context.Background(), key)
	up.Remove(context.Background(), "")
}

func TestSaveRejects(t *testing.T) {
	up := newUploader(t, 1<<20)

	req := formRequest(t, "", nil)
	if err := up.ParseForm(httptest.NewRecorder(), req); err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	if _, err := up.Save(context.Background(), req, "image", "users"); !errors.Is(err, ErrMissingFile) {
		t.Fatalf("expected ErrMissingFile, got %v", err)
	}

	req = formRequest(t, "avatar.png", []byte("<html><body>not an image</body></html>"))
	if err := up.ParseForm(httptest.NewRecorder(), req); err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	_, err := up.Save(context.Background(), req, "image", "users")
	if !errors.Is(err, ErrNotImage) || !IsClientError(err) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
}

func TestParseFormErrors(t *testing.T) {
	up := newUploader(t, 1<<20)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"India"}`))
	req.Header.Set("Content-Type", "application/json")
	err := up.ParseForm(httptest.NewRecorder(), req)
	if !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("expected ErrInvalidForm, got %v", err)
	}

	rec := httptest.NewRecorder()
	WriteError(rec, req, err)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	small := newUploader(t, 64)
	req = formRequest(t, "big.gif", append(gifBytes, bytes.Repeat([]byte{0}, 256)...))
	rec = httptest.NewRecorder()
	err = small.ParseForm(rec, req)
	if err == nil {
		t.Fatalf("expected size error")
	}
	WriteError(rec, req, err)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestNewKeyDropsOddExtensions(t *testing.T) {
	for name, wantSuffix := range map[string]string{
		"photo.JPG":          ".jpg",
		"archive.tar.gz":     ".gz",
		"noext":              "",
		"weird.p$g":          "",
		"long.abcdefghijklm": "",
	} {
		key := newKey("users", &multipart.FileHeader{Filename: name})
		rest := strings.TrimPrefix(key, "users/")
		if len(rest) != 36+len(wantSuffix) || !strings.HasSuffix(rest, wantSuffix) {
			t.Errorf("newKey(%q) = %q", name, key)
		}
	}
}
