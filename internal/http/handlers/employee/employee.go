// Package employee contains the HTTP handlers for the Employee resource.
//
// Address fields and language names are free text; only name, email and
// mobile are required.
package employee

import (
	"log/slog"
	"net/http"

	"github.com/Sonukathat/shiwansh-project/internal/storage"
	"github.com/Sonukathat/shiwansh-project/internal/types"
	"github.com/Sonukathat/shiwansh-project/internal/utils/request"
	"github.com/Sonukathat/shiwansh-project/internal/utils/response"
)

const resource = "employee"

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/employees
//
// Request body (JSON):
//
//	{ "name": "Asha", "email": "asha@test.com", "mobile": "9876543210",
//	  "country": "India", "state": "Goa", "district": "Panaji",
//	  "gender": "Female", "languages": ["Hindi", "English"] }
//
// gender, when given, must be Male, Female or Other.
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.EmployeeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating an employee")

		var req types.EmployeeRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, err)
			return
		}
		if err := request.Validate(req); err != nil {
			response.Error(w, r, err, resource)
			return
		}

		employee, err := storage.CreateEmployee(r.Context(), req.Employee())
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}

		slog.Info("employee created", slog.String("id", employee.ID))
		response.WriteJSON(w, http.StatusCreated, response.OK(employee))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/employees/{id}
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.EmployeeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employee, err := storage.GetEmployee(r.Context(), r.PathValue("id"))
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(employee))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/employees
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.EmployeeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employees, err := storage.ListEmployees(r.Context())
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(employees))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/employees/{id}; the whole record is replaced.
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.EmployeeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("updating an employee", slog.String("id", id))

		var req types.EmployeeRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, err)
			return
		}
		if err := request.Validate(req); err != nil {
			response.Error(w, r, err, resource)
			return
		}

		updated, err := storage.UpdateEmployee(r.Context(), id, req.Employee())
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(updated))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/employees/{id}
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.EmployeeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting an employee", slog.String("id", id))

		if err := storage.DeleteEmployee(r.Context(), id); err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(map[string]string{"id": id}))
	}
}
