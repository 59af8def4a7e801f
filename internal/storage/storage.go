// Package storage defines the contracts every database backend must
// satisfy. Handlers and the reference-data service depend only on these
// interfaces; main.go picks the concrete backend (sqlite, postgres or
// mongo) from configuration.
//
// Uniqueness (country name, language name, user/student/employee email,
// district triple, location country, state within a location) is enforced
// by the backend itself and reported as ErrConflict. Callers never pre-check.
package storage

import (
	"context"
	"errors"

	"github.com/Sonukathat/shiwansh-project/internal/types"
)

var (
	// ErrNotFound is returned when an id or key does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would violate a unique constraint.
	ErrConflict = errors.New("already exists")
	// ErrInvalidReference is returned when a record points at a country or
	// state that is not part of the location hierarchy.
	ErrInvalidReference = errors.New("invalid reference")
)

// LocationStore owns the country → ordered states mapping. All state
// mutations are atomic for a single country.
type LocationStore interface {
	ListLocations(ctx context.Context) ([]types.Location, error)
	GetLocation(ctx context.Context, country string) (types.Location, error)
	// CreateLocation inserts a country with no states.
	CreateLocation(ctx context.Context, country string) (types.Location, error)
	// AddState appends state unless already present.
	AddState(ctx context.Context, country, state string) (types.Location, error)
	// ReplaceStates overwrites the whole sequence.
	ReplaceStates(ctx context.Context, country string, states []string) (types.Location, error)
	// RemoveState drops state if present.
	RemoveState(ctx context.Context, country, state string) (types.Location, error)
	DeleteLocation(ctx context.Context, country string) error
}

// DistrictStore owns (country, state, district) triples.
type DistrictStore interface {
	CreateDistrict(ctx context.Context, d types.District) (types.District, error)
	GetDistrict(ctx context.Context, id string) (types.District, error)
	ListDistricts(ctx context.Context) ([]types.District, error)
	UpdateDistrict(ctx context.Context, id string, d types.District) (types.District, error)
	DeleteDistrict(ctx context.Context, id string) error
	// DeleteDistrictsByCountry removes every district of country and
	// reports how many were removed.
	DeleteDistrictsByCountry(ctx context.Context, country string) (int64, error)
	// DeleteDistrictsByStates removes every district of country whose state
	// is one of states.
	DeleteDistrictsByStates(ctx context.Context, country string, states []string) (int64, error)
}

type CountryStore interface {
	CreateCountry(ctx context.Context, c types.Country) (types.Country, error)
	GetCountry(ctx context.Context, id string) (types.Country, error)
	ListCountries(ctx context.Context) ([]types.Country, error)
	UpdateCountry(ctx context.Context, id string, c types.Country) (types.Country, error)
	DeleteCountry(ctx context.Context, id string) (types.Country, error)
}

type LanguageStore interface {
	CreateLanguage(ctx context.Context, name string) (types.Language, error)
	GetLanguage(ctx context.Context, id string) (types.Language, error)
	ListLanguages(ctx context.Context) ([]types.Language, error)
	UpdateLanguage(ctx context.Context, id string, name string) (types.Language, error)
	DeleteLanguage(ctx context.Context, id string) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u types.User) (types.User, error)
	GetUser(ctx context.Context, id string) (types.User, error)
	ListUsers(ctx context.Context) ([]types.User, error)
	UpdateUser(ctx context.Context, id string, u types.User) (types.User, error)
	DeleteUser(ctx context.Context, id string) (types.User, error)
}

type EmployeeStore interface {
	CreateEmployee(ctx context.Context, e types.Employee) (types.Employee, error)
	GetEmployee(ctx context.Context, id string) (types.Employee, error)
	ListEmployees(ctx context.Context) ([]types.Employee, error)
	UpdateEmployee(ctx context.Context, id string, e types.Employee) (types.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

type StudentStore interface {
	CreateStudent(ctx context.Context, s types.Student) (types.Student, error)
	GetStudent(ctx context.Context, id string) (types.Student, error)
	ListStudents(ctx context.Context) ([]types.Student, error)
	UpdateStudent(ctx context.Context, id string, s types.Student) (types.Student, error)
	DeleteStudent(ctx context.Context, id string) error
	// SearchStudents matches every non-empty filter as a case-insensitive
	// substring and combines them with AND.
	SearchStudents(ctx context.Context, f types.StudentFilter) ([]types.Student, error)
}

// Storage is the full backend contract.
type Storage interface {
	LocationStore
	DistrictStore
	CountryStore
	LanguageStore
	UserStore
	EmployeeStore
	StudentStore

	Ping(ctx context.Context) error
	Close() error
}
