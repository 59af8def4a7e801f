package types

// Request schemas. Each operation decodes into exactly one of these and
// validates it before touching storage; unknown JSON fields are rejected
// by the handlers.

type CountryRequest struct {
	Country string `json:"country" validate:"required"`
}

type StateRequest struct {
	Country string `json:"country" validate:"required"`
	State   string `json:"state"   validate:"required"`
}

type ReplaceStatesRequest struct {
	Country string `json:"country" validate:"required"`
	// States may be empty, but every entry must be non-empty and distinct.
	States []string `json:"states" validate:"required,unique,dive,required"`
}

type DistrictRequest struct {
	Country  string `json:"country"  validate:"required"`
	State    string `json:"state"    validate:"required"`
	District string `json:"district" validate:"required"`
}

type LanguageRequest struct {
	Name string `json:"name" validate:"required"`
}

// ReferenceItemForm is the multipart form of POST/PUT /api/countries.
type ReferenceItemForm struct {
	Name string `form:"name" validate:"required"`
}

// UserForm is the multipart form of POST /api/users.
type UserForm struct {
	Name   string `form:"name"   validate:"required"`
	Email  string `form:"email"  validate:"required,email"`
	Mobile string `form:"mobile" validate:"required"`
}

// UserPatchForm is the multipart form of PUT /api/users/{id}; empty
// fields keep their stored values.
type UserPatchForm struct {
	Name   string `form:"name"`
	Email  string `form:"email" validate:"omitempty,email"`
	Mobile string `form:"mobile"`
}

type EmployeeRequest struct {
	Name      string   `json:"name"      validate:"required"`
	Email     string   `json:"email"     validate:"required,email"`
	Mobile    string   `json:"mobile"    validate:"required"`
	Country   string   `json:"country"`
	State     string   `json:"state"`
	District  string   `json:"district"`
	Gender    string   `json:"gender"    validate:"omitempty,oneof=Male Female Other"`
	Languages []string `json:"languages" validate:"dive,required"`
}

// Employee converts the request into a record without identity fields.
func (r EmployeeRequest) Employee() Employee {
	langs := r.Languages
	if langs == nil {
		langs = []string{}
	}
	return Employee{
		Name:      r.Name,
		Email:     r.Email,
		Mobile:    r.Mobile,
		Country:   r.Country,
		State:     r.State,
		District:  r.District,
		Gender:    r.Gender,
		Languages: langs,
	}
}

type StudentRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Mobile   string `json:"mobile"   validate:"required"`
	Country  string `json:"country"  validate:"required"`
	State    string `json:"state"    validate:"required"`
	District string `json:"district" validate:"required"`
	Gender   string `json:"gender"   validate:"required,oneof=Male Female Other"`
}

func (r StudentRequest) Student() Student {
	return Student{
		Name:     r.Name,
		Email:    r.Email,
		Mobile:   r.Mobile,
		Country:  r.Country,
		State:    r.State,
		District: r.District,
		Gender:   r.Gender,
	}
}
