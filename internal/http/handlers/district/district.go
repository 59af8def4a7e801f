// Package district contains the HTTP handlers for /api/districts.
package district

import (
	"log/slog"
	"net/http"

	"github.com/Sonukathat/shiwansh-project/internal/refdata"
	"github.com/Sonukathat/shiwansh-project/internal/types"
	"github.com/Sonukathat/shiwansh-project/internal/utils/request"
	"github.com/Sonukathat/shiwansh-project/internal/utils/response"
)

const resource = "district"

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/districts
//
//	{ "country": "India", "state": "Kerala", "district": "Kochi" }
//
// Error responses:
//
//	400 Bad Request  — missing field, or the state is not one of the country's
//	409 Conflict     — the same triple already exists
//
// ─────────────────────────────────────────────────────────────────────────────
func New(svc *refdata.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode(w, r)
		if !ok {
			return
		}

		district, err := svc.AddDistrict(r.Context(), req)
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		slog.Info("district created", slog.String("id", district.ID))
		response.WriteJSON(w, http.StatusCreated, response.OK(district))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/districts/{id}
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(svc *refdata.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		district, err := svc.GetDistrict(r.Context(), r.PathValue("id"))
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(district))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/districts
// ─────────────────────────────────────────────────────────────────────────────
func GetList(svc *refdata.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		districts, err := svc.ListDistricts(r.Context())
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(districts))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/districts/{id}; all three fields are rewritten
// and checked against the hierarchy like New.
// ─────────────────────────────────────────────────────────────────────────────
func Update(svc *refdata.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		req, ok := decode(w, r)
		if !ok {
			return
		}

		district, err := svc.UpdateDistrict(r.Context(), id, req)
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		slog.Info("district updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(district))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/districts/{id}
// ─────────────────────────────────────────────────────────────────────────────
func Delete(svc *refdata.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := svc.DeleteDistrict(r.Context(), id); err != nil {
			response.Error(w, r, err, resource)
			return
		}
		slog.Info("district deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK(map[string]string{"id": id}))
	}
}

func decode(w http.ResponseWriter, r *http.Request) (types.District, bool) {
	var req types.DistrictRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, err)
		return types.District{}, false
	}
	if err := request.Validate(req); err != nil {
		response.Error(w, r, err, resource)
		return types.District{}, false
	}
	return types.District{Country: req.Country, State: req.State, District: req.District}, true
}
