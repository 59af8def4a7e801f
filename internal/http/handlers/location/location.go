// Package location contains the HTTP handlers for the country → states
// hierarchy under /api/locations. All of them go through refdata.Service,
// which keeps districts consistent with the hierarchy.
package location

import (
	"log/slog"
	"net/http"

	"github.com/Sonukathat/shiwansh-project/internal/refdata"
	"github.com/Sonukathat/shiwansh-project/internal/types"
	"github.com/Sonukathat/shiwansh-project/internal/utils/request"
	"github.com/Sonukathat/shiwansh-project/internal/utils/response"
)

// Every failure here is about the country named in the request.
const resource = "country"

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/locations
//
//	[ { "id": "1", "country": "India", "states": ["Kerala", "Goa"] } ]
// ─────────────────────────────────────────────────────────────────────────────
func GetList(svc *refdata.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locations, err := svc.ListLocations(r.Context())
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(locations))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// AddCountry handles POST /api/locations/country
//
//	{ "country": "Nepal" }
//
// 201 with the new location (no states yet); 409 if the country exists.
// Names are compared exactly: "nepal" and "Nepal" are different countries.
// ─────────────────────────────────────────────────────────────────────────────
func AddCountry(svc *refdata.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CountryRequest
		if !decode(w, r, &req) {
			return
		}

		loc, err := svc.AddCountry(r.Context(), req.Country)
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusCreated, response.OK(loc))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// AddState handles POST /api/locations/state
//
//	{ "country": "Nepal", "state": "Koshi" }
//
// Adding a state that is already there is not an error; the location is
// returned unchanged.
// ─────────────────────────────────────────────────────────────────────────────
func AddState(svc *refdata.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.StateRequest
		if !decode(w, r, &req) {
			return
		}

		loc, err := svc.AddState(r.Context(), req.Country, req.State)
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		slog.Info("state added", slog.String("country", req.Country), slog.String("state", req.State))
		response.WriteJSON(w, http.StatusOK, response.OK(loc))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ReplaceStates handles PUT /api/locations/updateState
//
//	{ "country": "Nepal", "states": ["Koshi", "Bagmati"] }
//
// The list replaces the stored one as given, in order. Districts of states
// that are dropped are deleted with them.
// ─────────────────────────────────────────────────────────────────────────────
func ReplaceStates(svc *refdata.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ReplaceStatesRequest
		if !decode(w, r, &req) {
			return
		}

		loc, err := svc.ReplaceStates(r.Context(), req.Country, req.States)
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		slog.Info("states replaced", slog.String("country", req.Country), slog.Int("count", len(req.States)))
		response.WriteJSON(w, http.StatusOK, response.OK(loc))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteState handles DELETE /api/locations/state with a
// { "country", "state" } body. Deleting a missing state succeeds.
// ─────────────────────────────────────────────────────────────────────────────
func DeleteState(svc *refdata.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.StateRequest
		if !decode(w, r, &req) {
			return
		}

		loc, err := svc.DeleteState(r.Context(), req.Country, req.State)
		if err != nil {
			response.Error(w, r, err, resource)
			return
		}
		slog.Info("state deleted", slog.String("country", req.Country), slog.String("state", req.State))
		response.WriteJSON(w, http.StatusOK, response.OK(loc))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteCountry handles DELETE /api/locations/country/{countryName}
// ─────────────────────────────────────────────────────────────────────────────
func DeleteCountry(svc *refdata.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		country := r.PathValue("countryName")

		if err := svc.DeleteCountry(r.Context(), country); err != nil {
			response.Error(w, r, err, resource)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK(map[string]string{"country": country}))
	}
}

// decode reads and validates a JSON body, writing the 400 itself when it
// fails.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := request.DecodeJSON(r, dst); err != nil {
		response.BadRequest(w, err)
		return false
	}
	if err := request.Validate(dst); err != nil {
		response.Error(w, r, err, resource)
		return false
	}
	return true
}
