// Package uploads serves stored images back to the browser.
package uploads

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Sonukathat/shiwansh-project/internal/blob/core"
	"github.com/Sonukathat/shiwansh-project/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// Serve handles GET /uploads/{key...}
// ─────────────────────────────────────────────────────────────────────────────
func Serve(store core.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")

		info, body, err := store.Get(r.Context(), key)
		switch {
		case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrInvalidKey):
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(errors.New("file not found")))
			return
		case err != nil:
			response.Error(w, r, err, "file")
			return
		}
		defer body.Close()

		if info.ContentType != "" {
			w.Header().Set("Content-Type", info.ContentType)
		}
		if info.Size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
		}
		if info.ETag != "" {
			w.Header().Set("ETag", `"`+info.ETag+`"`)
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.WriteHeader(http.StatusOK)

		if _, err := io.Copy(w, body); err != nil {
			slog.Warn("failed to stream upload", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
}
