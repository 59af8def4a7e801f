// Package upload reads image files out of multipart forms and keeps them
// in the blob store. A stored image is referred to by its blob key, which
// is also the path it is served under: GET /uploads/{key}.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/Sonukathat/shiwansh-project/internal/blob/core"
	"github.com/Sonukathat/shiwansh-project/internal/utils/response"
)

// ErrMissingFile is returned by Save when the form has no file in the
// requested field.
var ErrMissingFile = errors.New("file is required")

// ErrNotImage is returned by Save for files whose content is not an image.
var ErrNotImage = errors.New("file must be an image")

// ErrInvalidForm wraps every failure to read the multipart form itself.
var ErrInvalidForm = errors.New("invalid multipart form")

// sniffLen is how many bytes http.DetectContentType looks at.
const sniffLen = 512

var safeExt = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

type Uploader struct {
	store    core.Store
	maxBytes int64
}

func New(store core.Store, maxBytes int64) *Uploader {
	return &Uploader{store: store, maxBytes: maxBytes}
}

// ParseForm caps the request body at the configured size and parses it as
// multipart/form-data.
func (u *Uploader) ParseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, u.maxBytes)
	if err := r.ParseMultipartForm(u.maxBytes); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	return nil
}

// Save stores the file sent in field under prefix and returns its key.
// ParseForm must have been called first.
func (u *Uploader) Save(ctx context.Context, r *http.Request, field, prefix string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", fmt.Errorf("field %s: %w", field, ErrMissingFile)
	}
	if err != nil {
		return "", fmt.Errorf("field %s: %w: %w", field, ErrInvalidForm, err)
	}
	defer file.Close()

	contentType, body, err := sniff(file)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("field %s: %w", field, ErrNotImage)
	}

	key := newKey(prefix, header)
	if _, err := u.store.Put(ctx, key, body, core.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"filename": filepath.Base(header.Filename)},
	}); err != nil {
		return "", fmt.Errorf("upload.Save: put %s: %w", key, err)
	}
	slog.Info("file uploaded", slog.String("key", key), slog.Int64("size", header.Size))
	return key, nil
}

// Remove deletes key from the blob store. Failures are logged and
// otherwise ignored: a leftover file is not worth failing a request over.
func (u *Uploader) Remove(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if _, err := u.store.Delete(ctx, key); err != nil {
		slog.Warn("failed to remove upload", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Store exposes the blob store for the static file handler.
func (u *Uploader) Store() core.Store { return u.store }

// IsClientError reports whether err from ParseForm or Save is the
// client's fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingFile) ||
		errors.Is(err, ErrNotImage) ||
		errors.Is(err, ErrInvalidForm)
}

// WriteError answers a failed ParseForm or Save: 400 (or 413) when the
// client sent a bad form, 500 when the blob store failed.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if IsClientError(err) {
		response.BadRequest(w, err)
		return
	}
	response.Error(w, r, err, "upload")
}

// sniff reads the first bytes of f to detect its content type and returns
// a reader that yields the whole file again.
func sniff(f multipart.File) (string, io.Reader, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("upload: read: %w", err)
	}
	buf = buf[:n]
	return http.DetectContentType(buf), io.MultiReader(bytes.NewReader(buf), f), nil
}

func newKey(prefix string, header *multipart.FileHeader) string {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !safeExt.MatchString(ext) {
		ext = ""
	}
	return prefix + "/" + uuid.NewString() + ext
}
