package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Sonukathat/shiwansh-project/internal/config"
	"github.com/Sonukathat/shiwansh-project/internal/storage"
	"github.com/Sonukathat/shiwansh-project/internal/storage/sqldb"
	"github.com/Sonukathat/shiwansh-project/internal/types"
)

func newStore(t *testing.T) *sqldb.Store {
	t.Helper()
	cfg := &config.Config{Storage: config.Storage{SQLitePath: filepath.Join(t.TempDir(), "nested", "test.db")}}
	store, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLocations(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	loc, err := s.CreateLocation(ctx, "India")
	if err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}
	if loc.ID == "" || loc.States == nil || len(loc.States) != 0 {
		t.Fatalf("unexpected location %+v", loc)
	}
	if _, err := s.CreateLocation(ctx, "India"); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	for _, st := range []string{"Kerala", "Goa", "Kerala", "Bihar"} {
		if _, err := s.AddState(ctx, "India", st); err != nil {
			t.Fatalf("AddState(%s): %v", st, err)
		}
	}
	loc, err = s.GetLocation(ctx, "India")
	if err != nil {
		t.Fatalf("GetLocation: %v", err)
	}
	if want := []string{"Kerala", "Goa", "Bihar"}; !reflect.DeepEqual(loc.States, want) {
		t.Fatalf("states = %v, want %v", loc.States, want)
	}

	loc, err = s.RemoveState(ctx, "India", "Goa")
	if err != nil {
		t.Fatalf("RemoveState: %v", err)
	}
	if want := []string{"Kerala", "Bihar"}; !reflect.DeepEqual(loc.States, want) {
		t.Fatalf("states = %v, want %v", loc.States, want)
	}
	// Appending after a removal still goes to the end.
	loc, err = s.AddState(ctx, "India", "Goa")
	if err != nil {
		t.Fatalf("AddState: %v", err)
	}
	if want := []string{"Kerala", "Bihar", "Goa"}; !reflect.DeepEqual(loc.States, want) {
		t.Fatalf("states = %v, want %v", loc.States, want)
	}

	loc, err = s.ReplaceStates(ctx, "India", []string{"Assam", "Kerala"})
	if err != nil {
		t.Fatalf("ReplaceStates: %v", err)
	}
	if want := []string{"Assam", "Kerala"}; !reflect.DeepEqual(loc.States, want) {
		t.Fatalf("states = %v, want %v", loc.States, want)
	}
	loc, err = s.ReplaceStates(ctx, "India", []string{})
	if err != nil || len(loc.States) != 0 {
		t.Fatalf("ReplaceStates(empty) = %+v, %v", loc, err)
	}

	if _, err := s.CreateLocation(ctx, "Brazil"); err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}
	all, err := s.ListLocations(ctx)
	if err != nil {
		t.Fatalf("ListLocations: %v", err)
	}
	if len(all) != 2 || all[0].Country != "Brazil" || all[1].Country != "India" {
		t.Fatalf("unexpected list %+v", all)
	}

	if err := s.DeleteLocation(ctx, "India"); err != nil {
		t.Fatalf("DeleteLocation: %v", err)
	}
	if _, err := s.GetLocation(ctx, "India"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteLocation(ctx, "India"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.AddState(ctx, "India", "Goa"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDistrictCascadeHelpers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for _, d := range []types.District{
		{Country: "India", State: "Kerala", District: "Kochi"},
		{Country: "India", State: "Kerala", District: "Thrissur"},
		{Country: "India", State: "Goa", District: "Panaji"},
		{Country: "Nepal", State: "Koshi", District: "Morang"},
	} {
		if _, err := s.CreateDistrict(ctx, d); err != nil {
			t.Fatalf("CreateDistrict(%+v): %v", d, err)
		}
	}
	if _, err := s.CreateDistrict(ctx, types.District{Country: "India", State: "Goa", District: "Panaji"}); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	n, err := s.DeleteDistrictsByStates(ctx, "India", []string{"Kerala"})
	if err != nil || n != 2 {
		t.Fatalf("DeleteDistrictsByStates = %d, %v", n, err)
	}
	n, err = s.DeleteDistrictsByCountry(ctx, "Nepal")
	if err != nil || n != 1 {
		t.Fatalf("DeleteDistrictsByCountry = %d, %v", n, err)
	}
	left, err := s.ListDistricts(ctx)
	if err != nil {
		t.Fatalf("ListDistricts: %v", err)
	}
	if len(left) != 1 || left[0].District != "Panaji" {
		t.Fatalf("unexpected districts %+v", left)
	}
}

func TestStudentSearch(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	base := types.Student{Mobile: "1", State: "S", District: "D", Gender: types.GenderFemale}
	mk := func(name, email, country string) types.Student {
		st := base
		st.Name, st.Email, st.Country = name, email, country
		created, err := s.CreateStudent(ctx, st)
		if err != nil {
			t.Fatalf("CreateStudent: %v", err)
		}
		return created
	}
	a := mk("Asha", "asha@test.com", "India")
	b := mk("Ben", "ben@test.com", "indiana")
	mk("Carla", "carla@test.com", "Peru")
	mk("Dev_100%", "dev@test.com", "India")

	got, err := s.SearchStudents(ctx, types.StudentFilter{Country: "india"})
	if err != nil {
		t.Fatalf("SearchStudents: %v", err)
	}
	if len(got) != 3 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("country=india matched %+v", got)
	}

	got, err = s.SearchStudents(ctx, types.StudentFilter{Country: "INDIA", Name: "be"})
	if err != nil || len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("combined filter = %+v, %v", got, err)
	}

	// Wildcards in the input are literal.
	got, err = s.SearchStudents(ctx, types.StudentFilter{Name: "_1"})
	if err != nil || len(got) != 1 || got[0].Name != "Dev_100%" {
		t.Fatalf("underscore filter = %+v, %v", got, err)
	}
	got, err = s.SearchStudents(ctx, types.StudentFilter{Name: "%"})
	if err != nil || len(got) != 1 {
		t.Fatalf("percent filter = %+v, %v", got, err)
	}

	got, err = s.SearchStudents(ctx, types.StudentFilter{})
	if err != nil || len(got) != 4 {
		t.Fatalf("empty filter = %d students, %v", len(got), err)
	}
}

func TestStudentCRUD(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	in := types.Student{Name: "Asha", Email: "asha@test.com", Mobile: "1", Country: "India", State: "Goa", District: "Panaji", Gender: types.GenderFemale}
	created, err := s.CreateStudent(ctx, in)
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("unexpected timestamps %+v", created.Meta)
	}
	if _, err := s.CreateStudent(ctx, in); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	in.Name = "Asha K"
	updated, err := s.UpdateStudent(ctx, created.ID, in)
	if err != nil || updated.Name != "Asha K" || updated.ID != created.ID {
		t.Fatalf("UpdateStudent = %+v, %v", updated, err)
	}
	if _, err := s.UpdateStudent(ctx, "999", in); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetStudent(ctx, "not-a-number"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteStudent(ctx, created.ID); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}
	if err := s.DeleteStudent(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEmployeeLanguages(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	e, err := s.CreateEmployee(ctx, types.Employee{Name: "Ravi", Email: "ravi@test.com", Mobile: "1", Languages: []string{"Hindi", "Tamil"}})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	got, err := s.GetEmployee(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetEmployee: %v", err)
	}
	if !reflect.DeepEqual(got.Languages, []string{"Hindi", "Tamil"}) {
		t.Fatalf("languages = %v", got.Languages)
	}

	e2, err := s.CreateEmployee(ctx, types.Employee{Name: "Mina", Email: "mina@test.com", Mobile: "2"})
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if e2.Languages == nil || len(e2.Languages) != 0 {
		t.Fatalf("expected empty languages, got %#v", e2.Languages)
	}
}

func TestReferenceItems(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	lang, err := s.CreateLanguage(ctx, "Hindi")
	if err != nil {
		t.Fatalf("CreateLanguage: %v", err)
	}
	if _, err := s.CreateLanguage(ctx, "Hindi"); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := s.UpdateLanguage(ctx, lang.ID, "Hindustani"); err != nil {
		t.Fatalf("UpdateLanguage: %v", err)
	}

	c, err := s.CreateCountry(ctx, types.Country{Name: "India", Image: "countries/a.png"})
	if err != nil {
		t.Fatalf("CreateCountry: %v", err)
	}
	deleted, err := s.DeleteCountry(ctx, c.ID)
	if err != nil || deleted.Image != "countries/a.png" {
		t.Fatalf("DeleteCountry = %+v, %v", deleted, err)
	}

	u, err := s.CreateUser(ctx, types.User{Name: "Priya", Email: "p@test.com", Mobile: "1", Image: "users/p.jpg"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := s.CreateUser(ctx, types.User{Name: "Other", Email: "p@test.com", Mobile: "2", Image: "users/o.jpg"}); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	du, err := s.DeleteUser(ctx, u.ID)
	if err != nil || du.Email != "p@test.com" {
		t.Fatalf("DeleteUser = %+v, %v", du, err)
	}
}

func TestStudentSearchFoldsNonASCII(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	emile, err := s.CreateStudent(ctx, types.Student{
		Name: "Émile", Email: "emile@test.com", Mobile: "1",
		Country: "Österreich", State: "Wien", District: "Döbling", Gender: types.GenderMale,
	})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if _, err := s.CreateStudent(ctx, types.Student{
		Name: "b", Email: "b@test.com", Mobile: "2",
		Country: "indiana", State: "IN", District: "Marion", Gender: types.GenderFemale,
	}); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	for _, f := range []types.StudentFilter{
		{Name: "émile"},
		{Name: "ÉMILE"},
		{Country: "ÖSTER"},
		{District: "DÖB", Name: "mil"},
	} {
		got, err := s.SearchStudents(ctx, f)
		if err != nil {
			t.Fatalf("SearchStudents(%+v): %v", f, err)
		}
		if len(got) != 1 || got[0].ID != emile.ID {
			t.Errorf("SearchStudents(%+v) = %+v", f, got)
		}
	}
}
