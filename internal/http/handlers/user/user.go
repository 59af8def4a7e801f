// Package user contains the HTTP handlers for /api/users. Users carry an
// avatar, so create and update are multipart forms.
package user

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
	resource    = "user"
	imageField  = "image"
	imagePrefix = "users"
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/users (multipart/form-data)
//
//	name=Priya  email=priya@test.com  mobile=9876543210  image=@avatar.jpg
//
// Every field is required.
//
// Error responses:
//
//	400 Bad Request  — missing field, invalid email, or the file is not an image
//	409 Conflict     — email already used by another user
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.UserStore, up *upload.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a user")

		if err := up.ParseForm(w, r); err != nil {
			response.BadRequest(w, err)
			return
		}
		form := types.UserForm{
			Name:   r.FormValue("name"),
			Email:  r.FormValue("email"),
			Mobile: r.FormValue("mobile"),
		}
		if err := request.Validate(form); err != nil {
			response.Error(w, r, err, resource)
			return
		}

		key, err := up.Save(r.Context(), r, imageField, imagePrefix)
		if err != nil {
			upload.WriteError(w, r, err)
			return
		}

		user, err := storage.CreateUser(r.Context(), types.User{
			Name:   form.Name,
			Email:  form.Email,
			Mobile: form.Mobile,
			Image:  key,
		})
		if err != nil {
			up.Remove(r.Context(), key)
			response.Error(w, r, err, resource)
			return
		}

		slog.Info("user created", slog.String("id", user.ID))
		response.WriteJSON(w, http.StatusCreated, response.OK(user))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/users/{id}
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := storage.GetUser(r.Context(), r.PathValue("id"))
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(user))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/users
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := storage.ListUsers(r.Context())
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(users))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/users/{id} (multipart/form-data)
//
// Only the fields that are sent change: an empty or absent name, email or
// mobile keeps the stored value, and a new image replaces (and deletes)
// the old one.
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.UserStore, up *upload.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a user", slog.String("id", id))

		if err := up.ParseForm(w, r); err != nil {
			response.BadRequest(w, err)
			return
		}
		form := types.UserPatchForm{
			Name:   r.FormValue("name"),
			Email:  r.FormValue("email"),
			Mobile: r.FormValue("mobile"),
		}
		if err := request.Validate(form); err != nil {
			response.Error(w, r, err, resource)
			return
		}

		current, err := storage.GetUser(r.Context(), id)
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}

		next := current
		if form.Name != "" {
			next.Name = form.Name
		}
		if form.Email != "" {
			next.Email = form.Email
		}
		if form.Mobile != "" {
			next.Mobile = form.Mobile
		}

		newKey, err := up.Save(r.Context(), r, imageField, imagePrefix)
		switch {
		case err == nil:
			next.Image = newKey
		case !errors.Is(err, upload.ErrMissingFile):
			upload.WriteError(w, r, err)
			return
		}

		updated, err := storage.UpdateUser(r.Context(), id, next)
		if err != nil {
			up.Remove(r.Context(), newKey)
			response.Error(w, r, err, resource)
			return
		}
		if newKey != "" {
			up.Remove(r.Context(), current.Image)
		}

		slog.Info("user updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(updated))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/users/{id} and removes the avatar file.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.UserStore, up *upload.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		deleted, err := storage.DeleteUser(r.Context(), id)
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		up.Remove(r.Context(), deleted.Image)

		slog.Info("user deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(map[string]string{"id": id}))
	}
}
