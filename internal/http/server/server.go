// Package server assembles the route table and the http.Server around it.
package server

import (
	"net/http"

	"github.com/Sonukathat/shiwansh-project/internal/config"
	"github.com/Sonukathat/shiwansh-project/internal/http/handlers/country"
	"github.com/Sonukathat/shiwansh-project/internal/http/handlers/district"
	"github.com/Sonukathat/shiwansh-project/internal/http/handlers/employee"
	"github.com/Sonukathat/shiwansh-project/internal/http/handlers/health"
	"github.com/Sonukathat/shiwansh-project/internal/http/handlers/language"
	"github.com/Sonukathat/shiwansh-project/internal/http/handlers/location"
	"github.com/Sonukathat/shiwansh-project/internal/http/handlers/student"
	"github.com/Sonukathat/shiwansh-project/internal/http/handlers/uploads"
	"github.com/Sonukathat/shiwansh-project/internal/http/handlers/user"
	"github.com/Sonukathat/shiwansh-project/internal/http/middleware"
	"github.com/Sonukathat/shiwansh-project/internal/http/upload"
	"github.com/Sonukathat/shiwansh-project/internal/refdata"
	"github.com/Sonukathat/shiwansh-project/internal/storage"
)

// Deps is everything the handlers need.
type Deps struct {
	Storage  storage.Storage
	RefData  *refdata.Service
	Uploader *upload.Uploader
	Metrics  *middleware.Metrics
}

// NewRouter registers every route on a fresh ServeMux.
//
// Route table:
//
//	/api/locations   country → states hierarchy (refdata.Service)
//	/api/districts   districts under the hierarchy (refdata.Service)
//	/api/countries   flag list, multipart
//	/api/languages   language list
//	/api/users       users with avatars, multipart
//	/api/employees   employees
//	/api/students    students, plus /search
//	/uploads/...     stored images
func NewRouter(d Deps) *http.ServeMux {
	router := http.NewServeMux()
	s := d.Storage

	router.HandleFunc("GET /api/locations", location.GetList(d.RefData))
	router.HandleFunc("POST /api/locations/country", location.AddCountry(d.RefData))
	router.HandleFunc("POST /api/locations/state", location.AddState(d.RefData))
	router.HandleFunc("PUT /api/locations/updateState", location.ReplaceStates(d.RefData))
	router.HandleFunc("DELETE /api/locations/state", location.DeleteState(d.RefData))
	router.HandleFunc("DELETE /api/locations/country/{countryName}", location.DeleteCountry(d.RefData))

	router.HandleFunc("GET /api/districts", district.GetList(d.RefData))
	router.HandleFunc("POST /api/districts", district.New(d.RefData))
	router.HandleFunc("GET /api/districts/{id}", district.GetByID(d.RefData))
	router.HandleFunc("PUT /api/districts/{id}", district.Update(d.RefData))
	router.HandleFunc("DELETE /api/districts/{id}", district.Delete(d.RefData))

	router.HandleFunc("GET /api/countries", country.GetList(s))
	router.HandleFunc("POST /api/countries", country.New(s, d.Uploader))
	router.HandleFunc("GET /api/countries/{id}", country.GetByID(s))
	router.HandleFunc("PUT /api/countries/{id}", country.Update(s, d.Uploader))
	router.HandleFunc("PUT /api/countries", country.Update(s, d.Uploader))
	router.HandleFunc("DELETE /api/countries/{id}", country.Delete(s, d.Uploader))

	router.HandleFunc("GET /api/languages", language.GetList(s))
	router.HandleFunc("POST /api/languages", language.New(s))
	router.HandleFunc("POST /api/languages/add", language.New(s))
	router.HandleFunc("GET /api/languages/{id}", language.GetByID(s))
	router.HandleFunc("PUT /api/languages/{id}", language.Update(s))
	router.HandleFunc("DELETE /api/languages/{id}", language.Delete(s))

	router.HandleFunc("GET /api/users", user.GetList(s))
	router.HandleFunc("POST /api/users", user.New(s, d.Uploader))
	router.HandleFunc("GET /api/users/{id}", user.GetByID(s))
	router.HandleFunc("PUT /api/users/{id}", user.Update(s, d.Uploader))
	router.HandleFunc("DELETE /api/users/{id}", user.Delete(s, d.Uploader))

	router.HandleFunc("GET /api/employees", employee.GetList(s))
	router.HandleFunc("POST /api/employees", employee.New(s))
	router.HandleFunc("GET /api/employees/{id}", employee.GetByID(s))
	router.HandleFunc("PUT /api/employees/{id}", employee.Update(s))
	router.HandleFunc("DELETE /api/employees/{id}", employee.Delete(s))

	router.HandleFunc("GET /api/students", student.GetList(s))
	router.HandleFunc("POST /api/students", student.New(s))
	router.HandleFunc("GET /api/students/search", student.Search(s))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(s))
	router.HandleFunc("PUT /api/students/{id}", student.Update(s))
	router.HandleFunc("DELETE /api/students/{id}", student.Delete(s))

	router.HandleFunc("GET /uploads/{key...}", uploads.Serve(d.Uploader.Store()))
	router.HandleFunc("GET /healthz", health.Check(s))
	if d.Metrics != nil {
		router.Handle("GET /metrics", d.Metrics.Handler())
	}
	return router
}

// Handler wraps the router with the middleware stack. Recovery is
// outermost so a panic anywhere below still gets a JSON 500.
func Handler(cfg *config.Config, d Deps) http.Handler {
	mws := []middleware.Middleware{middleware.Recovery, middleware.Logging}
	if d.Metrics != nil {
		mws = append(mws, d.Metrics.Middleware)
	}
	mws = append(mws, middleware.CORS(cfg.CORS.AllowedOrigins))
	return middleware.Chain(NewRouter(d), mws...)
}

// New returns the configured http.Server; the caller starts and stops it.
func New(cfg *config.Config, d Deps) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: Handler(cfg, d),

		// Slow clients are cut off by these.
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
}
