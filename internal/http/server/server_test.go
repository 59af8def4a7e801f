package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sonukathat/shiwansh-project/internal/blob/fs"
	"github.com/Sonukathat/shiwansh-project/internal/config"
	"github.com/Sonukathat/shiwansh-project/internal/http/middleware"
	"github.com/Sonukathat/shiwansh-project/internal/http/upload"
	"github.com/Sonukathat/shiwansh-project/internal/refdata"
	"github.com/Sonukathat/shiwansh-project/internal/storage/sqlite"
	"github.com/Sonukathat/shiwansh-project/internal/types"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Storage: config.Storage{SQLitePath: filepath.Join(dir, "test.db")},
		CORS:    config.CORS{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	store, err := sqlite.New(cfg)
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	blobs, err := fs.New(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("fs.New: %v", err)
	}
	return Handler(cfg, Deps{
		Storage:  store,
		RefData:  refdata.New(store, store, 0),
		Uploader: upload.New(blobs, 1<<20),
		Metrics:  middleware.NewMetrics(),
	})
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", req.Method, req.URL, rec.Body.String(), err)
		}
	}
	return rec, env
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return do(t, h, req)
}

func doForm(t *testing.T, h http.Handler, method, path string, fields map[string]string, file []byte, filename string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(file); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return do(t, h, req)
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, want, rec.Body.String())
	}
}

func TestLocationLifecycle(t *testing.T) {
	h := newTestHandler(t)

	rec, env := doJSON(t, h, http.MethodPost, "/api/locations/country", map[string]string{"country": "Nepal"})
	expectStatus(t, rec, http.StatusCreated)
	if env.Status != "ok" {
		t.Fatalf("status field = %q", env.Status)
	}

	rec, env = doJSON(t, h, http.MethodPost, "/api/locations/country", map[string]string{"country": "Nepal"})
	expectStatus(t, rec, http.StatusConflict)
	if env.Status != "error" || env.Error != "country already exists" {
		t.Fatalf("unexpected conflict body %+v", env)
	}

	rec, env = doJSON(t, h, http.MethodPost, "/api/locations/state", map[string]string{"country": "Nepal", "state": "Koshi"})
	expectStatus(t, rec, http.StatusOK)
	if loc := decodeData[types.Location](t, env); len(loc.States) != 1 || loc.States[0] != "Koshi" {
		t.Fatalf("unexpected location %+v", loc)
	}

	rec, _ = doJSON(t, h, http.MethodPost, "/api/locations/state", map[string]string{"country": "Atlantis", "state": "X"})
	expectStatus(t, rec, http.StatusNotFound)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/districts", map[string]string{"country": "Nepal", "state": "Koshi", "district": "Morang"})
	expectStatus(t, rec, http.StatusCreated)

	rec, env = doJSON(t, h, http.MethodPost, "/api/districts", map[string]string{"country": "Nepal", "state": "Bagmati", "district": "Kathmandu"})
	expectStatus(t, rec, http.StatusBadRequest)
	if !strings.Contains(env.Error, "Bagmati") {
		t.Fatalf("error should name the state: %q", env.Error)
	}

	rec, _ = doJSON(t, h, http.MethodDelete, "/api/locations/country/Nepal", nil)
	expectStatus(t, rec, http.StatusOK)

	rec, env = doJSON(t, h, http.MethodGet, "/api/districts", nil)
	expectStatus(t, rec, http.StatusOK)
	if districts := decodeData[[]types.District](t, env); len(districts) != 0 {
		t.Fatalf("districts survived their country: %+v", districts)
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/locations", nil)
	expectStatus(t, rec, http.StatusOK)
	if string(env.Data) != "[]" {
		t.Fatalf("locations = %s, want []", env.Data)
	}

	rec, _ = doJSON(t, h, http.MethodDelete, "/api/locations/country/Nepal", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestLocationStateOperations(t *testing.T) {
	h := newTestHandler(t)
	doJSON(t, h, http.MethodPost, "/api/locations/country", map[string]string{"country": "India"})

	rec, env := doJSON(t, h, http.MethodPut, "/api/locations/updateState", map[string]any{"country": "India", "states": []string{"Goa", "Kerala"}})
	expectStatus(t, rec, http.StatusOK)
	if loc := decodeData[types.Location](t, env); strings.Join(loc.States, ",") != "Goa,Kerala" {
		t.Fatalf("states = %v", loc.States)
	}

	rec, env = doJSON(t, h, http.MethodPut, "/api/locations/updateState", map[string]any{"country": "India", "states": []string{"Goa", "Goa"}})
	expectStatus(t, rec, http.StatusBadRequest)
	if !strings.Contains(env.Error, "duplicates") {
		t.Fatalf("unexpected error %q", env.Error)
	}

	rec, _ = doJSON(t, h, http.MethodPut, "/api/locations/updateState", map[string]any{"country": "India", "states": []string{""}})
	expectStatus(t, rec, http.StatusBadRequest)

	for i := 0; i < 2; i++ {
		rec, env = doJSON(t, h, http.MethodDelete, "/api/locations/state", map[string]string{"country": "India", "state": "Goa"})
		expectStatus(t, rec, http.StatusOK)
		if loc := decodeData[types.Location](t, env); strings.Join(loc.States, ",") != "Kerala" {
			t.Fatalf("delete #%d: states = %v", i+1, loc.States)
		}
	}

	rec, env = doJSON(t, h, http.MethodPost, "/api/locations/country", "")
	expectStatus(t, rec, http.StatusBadRequest)
	if env.Error != "request body is empty" {
		t.Fatalf("unexpected error %q", env.Error)
	}

	rec, _ = doJSON(t, h, http.MethodPost, "/api/locations/country", `{"country":"Peru","extra":1}`)
	expectStatus(t, rec, http.StatusBadRequest)

	rec, env = doJSON(t, h, http.MethodPost, "/api/locations/state", map[string]string{"country": "India"})
	expectStatus(t, rec, http.StatusBadRequest)
	if env.Error != "field state is required" {
		t.Fatalf("unexpected error %q", env.Error)
	}
}

func TestStudents(t *testing.T) {
	h := newTestHandler(t)
	student := map[string]string{
		"name": "Asha", "email": "asha@test.com", "mobile": "98765",
		"country": "India", "state": "Goa", "district": "Panaji", "gender": "Female",
	}

	rec, env := doJSON(t, h, http.MethodPost, "/api/students", student)
	expectStatus(t, rec, http.StatusCreated)
	created := decodeData[types.Student](t, env)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/students", student)
	expectStatus(t, rec, http.StatusConflict)

	other := map[string]string{
		"name": "Ben", "email": "ben@test.com", "mobile": "1",
		"country": "indiana", "state": "IN", "district": "Marion", "gender": "Male",
	}
	doJSON(t, h, http.MethodPost, "/api/students", other)

	bad := map[string]string{}
	for k, v := range other {
		bad[k] = v
	}
	bad["email"], bad["gender"] = "x@test.com", "Unknown"
	rec, env = doJSON(t, h, http.MethodPost, "/api/students", bad)
	expectStatus(t, rec, http.StatusBadRequest)
	if !strings.Contains(env.Error, "field gender must be one of") {
		t.Fatalf("unexpected error %q", env.Error)
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/students/search?country=india", nil)
	expectStatus(t, rec, http.StatusOK)
	if found := decodeData[[]types.Student](t, env); len(found) != 2 {
		t.Fatalf("search matched %d students", len(found))
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/students/search?country=india&name=ash", nil)
	expectStatus(t, rec, http.StatusOK)
	if found := decodeData[[]types.Student](t, env); len(found) != 1 || found[0].ID != created.ID {
		t.Fatalf("unexpected search result %+v", found)
	}

	student["name"] = "Asha K"
	rec, env = doJSON(t, h, http.MethodPut, "/api/students/"+created.ID, student)
	expectStatus(t, rec, http.StatusOK)
	if got := decodeData[types.Student](t, env); got.Name != "Asha K" {
		t.Fatalf("update not applied: %+v", got)
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/students/424242", nil)
	expectStatus(t, rec, http.StatusNotFound)
	if env.Error != "student not found" {
		t.Fatalf("unexpected error %q", env.Error)
	}

	rec, _ = doJSON(t, h, http.MethodDelete, "/api/students/"+created.ID, nil)
	expectStatus(t, rec, http.StatusOK)
	rec, _ = doJSON(t, h, http.MethodDelete, "/api/students/"+created.ID, nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestEmployeesAndLanguages(t *testing.T) {
	h := newTestHandler(t)

	rec, env := doJSON(t, h, http.MethodPost, "/api/employees", map[string]any{
		"name": "Ravi", "email": "ravi@test.com", "mobile": "1", "languages": []string{"Hindi"},
	})
	expectStatus(t, rec, http.StatusCreated)
	if e := decodeData[types.Employee](t, env); len(e.Languages) != 1 || e.Country != "" {
		t.Fatalf("unexpected employee %+v", e)
	}

	rec, _ = doJSON(t, h, http.MethodPost, "/api/employees", map[string]any{
		"name": "Mina", "email": "not-an-email", "mobile": "1",
	})
	expectStatus(t, rec, http.StatusBadRequest)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/languages/add", map[string]string{"name": "Hindi"})
	expectStatus(t, rec, http.StatusCreated)
	rec, env = doJSON(t, h, http.MethodPost, "/api/languages", map[string]string{"name": "Hindi"})
	expectStatus(t, rec, http.StatusConflict)
	if env.Error != "language already exists" {
		t.Fatalf("unexpected error %q", env.Error)
	}
}

func TestCountryUploads(t *testing.T) {
	h := newTestHandler(t)

	rec, _ := doForm(t, h, http.MethodPost, "/api/countries", map[string]string{"name": "India"}, nil, "")
	expectStatus(t, rec, http.StatusBadRequest)

	rec, _ = doForm(t, h, http.MethodPost, "/api/countries", map[string]string{"name": "India"}, []byte("just text"), "flag.png")
	expectStatus(t, rec, http.StatusBadRequest)

	rec, env := doForm(t, h, http.MethodPost, "/api/countries", map[string]string{"name": "India"}, pngBytes, "Flag.PNG")
	expectStatus(t, rec, http.StatusCreated)
	country := decodeData[types.Country](t, env)
	if !strings.HasPrefix(country.Image, "countries/") || !strings.HasSuffix(country.Image, ".png") {
		t.Fatalf("unexpected image key %q", country.Image)
	}

	req := httptest.NewRequest(http.MethodGet, "/uploads/"+country.Image, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)
	if rec.Header().Get("Content-Type") != "image/png" || !bytes.Equal(rec.Body.Bytes(), pngBytes) {
		t.Fatalf("unexpected upload response %q %d bytes", rec.Header().Get("Content-Type"), rec.Body.Len())
	}

	rec, _ = doForm(t, h, http.MethodPost, "/api/countries", map[string]string{"name": "India"}, pngBytes, "again.png")
	expectStatus(t, rec, http.StatusConflict)

	// Rename without a new image keeps the old one.
	rec, env = doForm(t, h, http.MethodPut, "/api/countries/"+country.ID, map[string]string{"name": "Bharat"}, nil, "")
	expectStatus(t, rec, http.StatusOK)
	if updated := decodeData[types.Country](t, env); updated.Name != "Bharat" || updated.Image != country.Image {
		t.Fatalf("unexpected update %+v", updated)
	}

	// The older route form carries the id in the form.
	rec, env = doForm(t, h, http.MethodPut, "/api/countries", map[string]string{"id": country.ID, "name": "India"}, nil, "")
	expectStatus(t, rec, http.StatusOK)
	if updated := decodeData[types.Country](t, env); updated.ID != country.ID || updated.Name != "India" {
		t.Fatalf("unexpected update %+v", updated)
	}
	rec, env = doForm(t, h, http.MethodPut, "/api/countries", map[string]string{"name": "India"}, nil, "")
	expectStatus(t, rec, http.StatusBadRequest)
	if env.Error != "field id is required" {
		t.Fatalf("unexpected error %q", env.Error)
	}

	rec, _ = doJSON(t, h, http.MethodDelete, "/api/countries/"+country.ID, nil)
	expectStatus(t, rec, http.StatusOK)
	rec, _ = doJSON(t, h, http.MethodGet, "/uploads/"+country.Image, nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestUserPartialUpdate(t *testing.T) {
	h := newTestHandler(t)

	rec, env := doForm(t, h, http.MethodPost, "/api/users",
		map[string]string{"name": "Priya", "email": "priya@test.com", "mobile": "111"}, pngBytes, "me.png")
	expectStatus(t, rec, http.StatusCreated)
	created := decodeData[types.User](t, env)

	rec, env = doForm(t, h, http.MethodPut, "/api/users/"+created.ID, map[string]string{"mobile": "222"}, pngBytes, "new.png")
	expectStatus(t, rec, http.StatusOK)
	updated := decodeData[types.User](t, env)
	if updated.Name != "Priya" || updated.Email != "priya@test.com" || updated.Mobile != "222" {
		t.Fatalf("unexpected update %+v", updated)
	}
	if updated.Image == created.Image {
		t.Fatalf("image should have been replaced")
	}
	rec, _ = doJSON(t, h, http.MethodGet, "/uploads/"+created.Image, nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec, _ = doForm(t, h, http.MethodPut, "/api/users/"+created.ID, map[string]string{"email": "broken"}, nil, "")
	expectStatus(t, rec, http.StatusBadRequest)

	rec, _ = doForm(t, h, http.MethodPost, "/api/users", map[string]string{"name": "NoPic", "email": "n@test.com", "mobile": "1"}, nil, "")
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestOperationalEndpoints(t *testing.T) {
	h := newTestHandler(t)

	rec, env := doJSON(t, h, http.MethodGet, "/healthz", nil)
	expectStatus(t, rec, http.StatusOK)
	if env.Status != "ok" {
		t.Fatalf("unexpected health %+v", env)
	}

	doJSON(t, h, http.MethodGet, "/api/students", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `http_requests_total{code="200",method="GET",route="GET /api/students"}`) {
		t.Fatalf("metrics missing request counter:\n%s", rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/students", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}
