package main

import (
	"context"
	"errors"
	"testing"

	"github.com/Sonukathat/shiwansh-project/internal/blob/core"
	"github.com/Sonukathat/shiwansh-project/internal/config"
	"github.com/Sonukathat/shiwansh-project/internal/storage"
)

// closeRecorder is a storage.Storage that only notices Close.
type closeRecorder struct {
	storage.Storage
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func stubOpeners(t *testing.T, store storage.Storage, blobErr error) {
	t.Helper()
	origStore, origBlob := openStore, openBlob
	t.Cleanup(func() { openStore, openBlob = origStore, origBlob })

	openStore = func(context.Context, *config.Config) (storage.Storage, error) { return store, nil }
	openBlob = func(context.Context, *config.Config) (core.Store, error) {
		if blobErr != nil {
			return nil, blobErr
		}
		return nil, nil
	}
}

func TestOpenBackendsClosesStoreWhenBlobFails(t *testing.T) {
	rec := &closeRecorder{}
	blobErr := errors.New("bucket missing")
	stubOpeners(t, rec, blobErr)

	store, blobs, err := openBackends(context.Background(), &config.Config{})
	if !errors.Is(err, blobErr) {
		t.Fatalf("expected blob error, got %v", err)
	}
	if store != nil || blobs != nil {
		t.Fatalf("expected nil backends on failure")
	}
	if !rec.closed {
		t.Fatalf("storage was left open")
	}
}

func TestOpenBackendsKeepsStoreOpen(t *testing.T) {
	rec := &closeRecorder{}
	stubOpeners(t, rec, nil)

	store, _, err := openBackends(context.Background(), &config.Config{})
	if err != nil {
		t.Fatalf("openBackends: %v", err)
	}
	if store != rec || rec.closed {
		t.Fatalf("unexpected store state: closed=%v", rec.closed)
	}
}

func TestOpenStorageUnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.Storage{Driver: "oracle"}}
	if _, err := openStorage(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
