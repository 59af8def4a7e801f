// Package language contains the HTTP handlers for the Language reference
// list.
package language

import (
	"log/slog"
	"net/http"

	"github.com/Sonukathat/shiwansh-project/internal/storage"
	"github.com/Sonukathat/shiwansh-project/internal/types"
	"github.com/Sonukathat/shiwansh-project/internal/utils/request"
	"github.com/Sonukathat/shiwansh-project/internal/utils/response"
)

const resource = "language"

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/languages and its older alias
// POST /api/languages/add.
//
//	{ "name": "Hindi" }
//
// A name that already exists is a 409.
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.LanguageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.LanguageRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, err)
			return
		}
		if err := request.Validate(req); err != nil {
			response.Error(w, r, err, resource)
			return
		}

		language, err := storage.CreateLanguage(r.Context(), req.Name)
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}

		slog.Info("language created", slog.String("id", language.ID), slog.String("name", language.Name))
		response.WriteJSON(w, http.StatusCreated, response.OK(language))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/languages/{id}
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.LanguageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		language, err := storage.GetLanguage(r.Context(), r.PathValue("id"))
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(language))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/languages
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.LanguageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		languages, err := storage.ListLanguages(r.Context())
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(languages))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/languages/{id}
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.LanguageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var req types.LanguageRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, err)
			return
		}
		if err := request.Validate(req); err != nil {
			response.Error(w, r, err, resource)
			return
		}

		language, err := storage.UpdateLanguage(r.Context(), id, req.Name)
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		slog.Info("language updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(language))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/languages/{id}
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.LanguageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := storage.DeleteLanguage(r.Context(), id); err != nil {
			response.Error(w, r, err, resource)
			return
		}
		slog.Info("language deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(map[string]string{"id": id}))
	}
}
