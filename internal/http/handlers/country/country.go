// Package country contains the HTTP handlers for /api/countries, the
// flag-carrying country reference list. Requests that change a country are
// multipart forms with a "name" field and an "image" file.
//
// This list is independent of the location hierarchy under
// /api/locations: deleting a country here does not touch states or
// districts.
package country

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Sonukathat/shiwansh-project/internal/http/upload"
	"github.com/Sonukathat/shiwansh-project/internal/storage"
	"github.com/Sonukathat/shiwansh-project/internal/types"
	"github.com/Sonukathat/shiwansh-project/internal/utils/request"
	"github.com/Sonukathat/shiwansh-project/internal/utils/response"
)

const (
	resource    = "country"
	imageField  = "image"
	imagePrefix = "countries"
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/countries (multipart/form-data)
//
//	name=India  image=@flag.png
//
// Both fields are required. The stored image field is the blob key; the
// file is served at /uploads/{image}.
//
// Error responses:
//
//	400 Bad Request  — missing name or image, or the file is not an image
//	409 Conflict     — a country with that name exists
//	413              — the form is larger than upload.max_bytes
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.CountryStore, up *upload.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a country")

		if err := up.ParseForm(w, r); err != nil {
			response.BadRequest(w, err)
			return
		}
		form := types.ReferenceItemForm{Name: r.FormValue("name")}
		if err := request.Validate(form); err != nil {
			response.Error(w, r, err, resource)
			return
		}

		key, err := up.Save(r.Context(), r, imageField, imagePrefix)
		if err != nil {
			upload.WriteError(w, r, err)
			return
		}

		country, err := storage.CreateCountry(r.Context(), types.Country{Name: form.Name, Image: key})
		if err != nil {
			up.Remove(r.Context(), key)
			response.Error(w, r, err, resource)
			return
		}

		slog.Info("country created", slog.String("id", country.ID), slog.String("name", country.Name))
		response.WriteJSON(w, http.StatusCreated, response.OK(country))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/countries/{id}
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.CountryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		country, err := storage.GetCountry(r.Context(), r.PathValue("id"))
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(country))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/countries
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.CountryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		countries, err := storage.ListCountries(r.Context())
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(countries))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/countries/{id} (multipart/form-data)
//
// name is required; image is optional and, when sent, replaces the old
// file, which is then removed from the blob store.
//
// PUT /api/countries with the id as a form field is accepted as well, for
// clients of the older form of this route.
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.CountryStore, up *upload.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := up.ParseForm(w, r); err != nil {
			response.BadRequest(w, err)
			return
		}
		id := r.PathValue("id")
		if id == "" {
			id = r.FormValue("id")
		}
		if id == "" {
			response.BadRequest(w, errors.New("field id is required"))
			return
		}
		slog.Info("updating a country", slog.String("id", id))

		form := types.ReferenceItemForm{Name: r.FormValue("name")}
		if err := request.Validate(form); err != nil {
			response.Error(w, r, err, resource)
			return
		}

		current, err := storage.GetCountry(r.Context(), id)
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}

		image := current.Image
		newKey, err := up.Save(r.Context(), r, imageField, imagePrefix)
		switch {
		case err == nil:
			image = newKey
		case !errors.Is(err, upload.ErrMissingFile):
			upload.WriteError(w, r, err)
			return
		}

		updated, err := storage.UpdateCountry(r.Context(), id, types.Country{Name: form.Name, Image: image})
		if err != nil {
			up.Remove(r.Context(), newKey)
			response.Error(w, r, err, resource)
			return
		}
		if newKey != "" {
			up.Remove(r.Context(), current.Image)
		}

		response.WriteJSON(w, http.StatusOK, response.OK(updated))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/countries/{id} and removes the flag file.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.CountryStore, up *upload.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		deleted, err := storage.DeleteCountry(r.Context(), id)
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		up.Remove(r.Context(), deleted.Image)

		slog.Info("country deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(map[string]string{"id": id}))
	}
}
