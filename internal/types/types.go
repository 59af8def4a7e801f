// Package types holds the records stored by the API and the request
// schemas used to create or change them. Handlers, storage backends and
// the reference-data service all import it, which keeps them free of
// import cycles.
//
// Struct tags:
//
//  1. json:"..."     controls the JSON field names on the wire.
//  2. bson:"..."     controls the field names in MongoDB documents.
//  3. validate:"..." rules checked by go-playground/validator.
package types

import "time"

// Gender values accepted for students and employees.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Meta is embedded in every stored record.
type Meta struct {
	ID        string    `json:"id"         bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Location is one country of the reference hierarchy and its ordered
// state names.
type Location struct {
	ID      string   `json:"id"      bson:"_id"`
	Country string   `json:"country" bson:"country"`
	States  []string `json:"states"  bson:"states"`
}

// HasState reports whether state is one of the location's states.
func (l Location) HasState(state string) bool {
	for _, s := range l.States {
		if s == state {
			return true
		}
	}
	return false
}

// District is a (country, state, district) triple.
type District struct {
	Meta     `bson:",inline"`
	Country  string `json:"country"  bson:"country"`
	State    string `json:"state"    bson:"state"`
	District string `json:"district" bson:"district"`
}

// Country is a reference item with a flag image.
type Country struct {
	Meta  `bson:",inline"`
	Name  string `json:"name"  bson:"name"`
	Image string `json:"image" bson:"image"`
}

// Language is a reference item.
type Language struct {
	Meta `bson:",inline"`
	Name string `json:"name" bson:"name"`
}

// User is an account record with an avatar image.
type User struct {
	Meta   `bson:",inline"`
	Name   string `json:"name"   bson:"name"`
	Email  string `json:"email"  bson:"email"`
	Mobile string `json:"mobile" bson:"mobile"`
	Image  string `json:"image"  bson:"image"`
}

// Employee address fields are free text; they are not checked against
// the location hierarchy.
type Employee struct {
	Meta      `bson:",inline"`
	Name      string   `json:"name"      bson:"name"`
	Email     string   `json:"email"     bson:"email"`
	Mobile    string   `json:"mobile"    bson:"mobile"`
	Country   string   `json:"country"   bson:"country"`
	State     string   `json:"state"     bson:"state"`
	District  string   `json:"district"  bson:"district"`
	Gender    string   `json:"gender"    bson:"gender"`
	Languages []string `json:"languages" bson:"languages"`
}

// Student address fields are free text, like Employee's.
type Student struct {
	Meta     `bson:",inline"`
	Name     string `json:"name"     bson:"name"`
	Email    string `json:"email"    bson:"email"`
	Mobile   string `json:"mobile"   bson:"mobile"`
	Country  string `json:"country"  bson:"country"`
	State    string `json:"state"    bson:"state"`
	District string `json:"district" bson:"district"`
	Gender   string `json:"gender"   bson:"gender"`
}

// StudentFilter holds the optional search terms of GET /api/students/search.
// Empty fields are not constraints.
type StudentFilter struct {
	Name     string
	Email    string
	Mobile   string
	Country  string
	State    string
	District string
}

// Fields returns the non-empty filters keyed by column name.
func (f StudentFilter) Fields() map[string]string {
	all := map[string]string{
		"name":     f.Name,
		"email":    f.Email,
		"mobile":   f.Mobile,
		"country":  f.Country,
		"state":    f.State,
		"district": f.District,
	}
	out := make(map[string]string, len(all))
	for k, v := range all {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
