// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Each exported function receives its dependencies once, at route
// registration, and returns the http.HandlerFunc that runs per request:
//
//	router.HandleFunc("POST /api/students", student.New(storage))
//
// The factories ask for storage.StudentStore rather than the whole
// storage.Storage, so tests can hand them anything that stores students.
package student

import (
	"log/slog"
	"net/http"

	"github.com/Sonukathat/shiwansh-project/internal/storage"
	"github.com/Sonukathat/shiwansh-project/internal/types"
	"github.com/Sonukathat/shiwansh-project/internal/utils/request"
	"github.com/Sonukathat/shiwansh-project/internal/utils/response"
)

const resource = "student"

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
//
// Request body (JSON), every field required:
//
//	{ "name": "Rakesh", "email": "rakesh@test.com", "mobile": "9876543210",
//	  "country": "India", "state": "Kerala", "district": "Kochi", "gender": "Male" }
//
// Success response (201 Created): the stored student.
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	409 Conflict     — email already used by another student
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var req types.StudentRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, err)
			return
		}
		if err := request.Validate(req); err != nil {
			response.Error(w, r, err, resource)
			return
		}

		student, err := storage.CreateStudent(r.Context(), req.Student())
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}

		slog.Info("student created", slog.String("id", student.ID))
		response.WriteJSON(w, http.StatusCreated, response.OK(student))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a student", slog.String("id", id))

		student, err := storage.GetStudent(r.Context(), id)
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(student))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
// Returns an empty array [] (not null) when there are no students.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := storage.ListStudents(r.Context())
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(students))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Search handles GET /api/students/search
//
// Query parameters (all optional): name, email, mobile, country, state,
// district. Each non-empty one must appear, case-insensitively, somewhere
// in the matching field; all of them must hold at once.
//
//	GET /api/students/search?country=ind&state=ker
//
// No parameters returns every student.
// ─────────────────────────────────────────────────────────────────────────────
func Search(storage storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := types.StudentFilter{
			Name:     q.Get("name"),
			Email:    q.Get("email"),
			Mobile:   q.Get("mobile"),
			Country:  q.Get("country"),
			State:    q.Get("state"),
			District: q.Get("district"),
		}
		slog.Info("searching students", slog.Any("filter", filter.Fields()))

		students, err := storage.SearchStudents(r.Context(), filter)
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(students))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
// Replaces ALL fields of an existing student; the body follows the same
// rules as New.
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	404 Not Found    — no student with that id
//	409 Conflict     — email already used by another student
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating a student", slog.String("id", id))

		var req types.StudentRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, err)
			return
		}
		if err := request.Validate(req); err != nil {
			response.Error(w, r, err, resource)
			return
		}

		updated, err := storage.UpdateStudent(r.Context(), id, req.Student())
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(updated))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		if err := storage.DeleteStudent(r.Context(), id); err != nil {
			response.Error(w, r, err, resource)
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(map[string]string{"id": id}))
	}
}
