package mongodb

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sonukathat/shiwansh-project/internal/types"
)

func sortBy(fields ...string) *options.FindOptions {
	d := bson.D{}
	for _, f := range fields {
		d = append(d, bson.E{Key: f, Value: 1})
	}
	return options.Find().SetSort(d)
}

// ── Districts ───────────────────────────────────────────────────────────

func (s *Store) CreateDistrict(ctx context.Context, d types.District) (types.District, error) {
	now := s.now()
	d.Meta = types.Meta{ID: newID(), CreatedAt: now, UpdatedAt: now}
	if _, err := s.coll(colDistricts).InsertOne(ctx, d); err != nil {
		return types.District{}, wrap("CreateDistrict", err)
	}
	return d, nil
}

func (s *Store) GetDistrict(ctx context.Context, id string) (types.District, error) {
	var d types.District
	if err := s.coll(colDistricts).FindOne(ctx, byID(id)).Decode(&d); err != nil {
		return types.District{}, wrap("GetDistrict", err)
	}
	return d, nil
}

func (s *Store) ListDistricts(ctx context.Context) ([]types.District, error) {
	out, err := findAll[types.District](ctx, s.coll(colDistricts), bson.M{}, sortBy("country", "state", "district"))
	return out, wrap("ListDistricts", err)
}

func (s *Store) UpdateDistrict(ctx context.Context, id string, d types.District) (types.District, error) {
	var updated types.District
	err := s.coll(colDistricts).FindOneAndUpdate(ctx, byID(id), bson.M{"$set": bson.M{
		"country":    d.Country,
		"state":      d.State,
		"district":   d.District,
		"updated_at": s.now(),
	}}, after()).Decode(&updated)
	if err != nil {
		return types.District{}, wrap("UpdateDistrict", err)
	}
	return updated, nil
}

func (s *Store) DeleteDistrict(ctx context.Context, id string) error {
	return wrap("DeleteDistrict", deleteOne(ctx, s.coll(colDistricts), id))
}

func (s *Store) DeleteDistrictsByCountry(ctx context.Context, country string) (int64, error) {
	res, err := s.coll(colDistricts).DeleteMany(ctx, bson.M{"country": country})
	if err != nil {
		return 0, wrap("DeleteDistrictsByCountry", err)
	}
	return res.DeletedCount, nil
}

func (s *Store) DeleteDistrictsByStates(ctx context.Context, country string, states []string) (int64, error) {
	if len(states) == 0 {
		return 0, nil
	}
	res, err := s.coll(colDistricts).DeleteMany(ctx, bson.M{
		"country": country,
		"state":   bson.M{"$in": states},
	})
	if err != nil {
		return 0, wrap("DeleteDistrictsByStates", err)
	}
	return res.DeletedCount, nil
}

// ── Countries ───────────────────────────────────────────────────────────

func (s *Store) CreateCountry(ctx context.Context, c types.Country) (types.Country, error) {
	now := s.now()
	c.Meta = types.Meta{ID: newID(), CreatedAt: now, UpdatedAt: now}
	if _, err := s.coll(colCountries).InsertOne(ctx, c); err != nil {
		return types.Country{}, wrap("CreateCountry", err)
	}
	return c, nil
}

func (s *Store) GetCountry(ctx context.Context, id string) (types.Country, error) {
	var c types.Country
	if err := s.coll(colCountries).FindOne(ctx, byID(id)).Decode(&c); err != nil {
		return types.Country{}, wrap("GetCountry", err)
	}
	return c, nil
}

func (s *Store) ListCountries(ctx context.Context) ([]types.Country, error) {
	out, err := findAll[types.Country](ctx, s.coll(colCountries), bson.M{}, sortBy("name"))
	return out, wrap("ListCountries", err)
}

func (s *Store) UpdateCountry(ctx context.Context, id string, c types.Country) (types.Country, error) {
	var updated types.Country
	err := s.coll(colCountries).FindOneAndUpdate(ctx, byID(id), bson.M{"$set": bson.M{
		"name":       c.Name,
		"image":      c.Image,
		"updated_at": s.now(),
	}}, after()).Decode(&updated)
	if err != nil {
		return types.Country{}, wrap("UpdateCountry", err)
	}
	return updated, nil
}

func (s *Store) DeleteCountry(ctx context.Context, id string) (types.Country, error) {
	var deleted types.Country
	if err := s.coll(colCountries).FindOneAndDelete(ctx, byID(id)).Decode(&deleted); err != nil {
		return types.Country{}, wrap("DeleteCountry", err)
	}
	return deleted, nil
}

// ── Languages ───────────────────────────────────────────────────────────

func (s *Store) CreateLanguage(ctx context.Context, name string) (types.Language, error) {
	now := s.now()
	l := types.Language{Meta: types.Meta{ID: newID(), CreatedAt: now, UpdatedAt: now}, Name: name}
	if _, err := s.coll(colLanguages).InsertOne(ctx, l); err != nil {
		return types.Language{}, wrap("CreateLanguage", err)
	}
	return l, nil
}

func (s *Store) GetLanguage(ctx context.Context, id string) (types.Language, error) {
	var l types.Language
	if err := s.coll(colLanguages).FindOne(ctx, byID(id)).Decode(&l); err != nil {
		return types.Language{}, wrap("GetLanguage", err)
	}
	return l, nil
}

func (s *Store) ListLanguages(ctx context.Context) ([]types.Language, error) {
	out, err := findAll[types.Language](ctx, s.coll(colLanguages), bson.M{}, sortBy("name"))
	return out, wrap("ListLanguages", err)
}

func (s *Store) UpdateLanguage(ctx context.Context, id string, name string) (types.Language, error) {
	var updated types.Language
	err := s.coll(colLanguages).FindOneAndUpdate(ctx, byID(id), bson.M{"$set": bson.M{
		"name":       name,
		"updated_at": s.now(),
	}}, after()).Decode(&updated)
	if err != nil {
		return types.Language{}, wrap("UpdateLanguage", err)
	}
	return updated, nil
}

func (s *Store) DeleteLanguage(ctx context.Context, id string) error {
	return wrap("DeleteLanguage", deleteOne(ctx, s.coll(colLanguages), id))
}

// ── Users ───────────────────────────────────────────────────────────────

func (s *Store) CreateUser(ctx context.Context, u types.User) (types.User, error) {
	now := s.now()
	u.Meta = types.Meta{ID: newID(), CreatedAt: now, UpdatedAt: now}
	if _, err := s.coll(colUsers).InsertOne(ctx, u); err != nil {
		return types.User{}, wrap("CreateUser", err)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (types.User, error) {
	var u types.User
	if err := s.coll(colUsers).FindOne(ctx, byID(id)).Decode(&u); err != nil {
		return types.User{}, wrap("GetUser", err)
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]types.User, error) {
	out, err := findAll[types.User](ctx, s.coll(colUsers), bson.M{}, sortBy("created_at"))
	return out, wrap("ListUsers", err)
}

func (s *Store) UpdateUser(ctx context.Context, id string, u types.User) (types.User, error) {
	var updated types.User
	err := s.coll(colUsers).FindOneAndUpdate(ctx, byID(id), bson.M{"$set": bson.M{
		"name":       u.Name,
		"email":      u.Email,
		"mobile":     u.Mobile,
		"image":      u.Image,
		"updated_at": s.now(),
	}}, after()).Decode(&updated)
	if err != nil {
		return types.User{}, wrap("UpdateUser", err)
	}
	return updated, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) (types.User, error) {
	var deleted types.User
	if err := s.coll(colUsers).FindOneAndDelete(ctx, byID(id)).Decode(&deleted); err != nil {
		return types.User{}, wrap("DeleteUser", err)
	}
	return deleted, nil
}

// ── Employees ───────────────────────────────────────────────────────────

func normalizeEmployee(e types.Employee) types.Employee {
	if e.Languages == nil {
		e.Languages = []string{}
	}
	return e
}

func (s *Store) CreateEmployee(ctx context.Context, e types.Employee) (types.Employee, error) {
	now := s.now()
	e.Meta = types.Meta{ID: newID(), CreatedAt: now, UpdatedAt: now}
	e = normalizeEmployee(e)
	if _, err := s.coll(colEmployees).InsertOne(ctx, e); err != nil {
		return types.Employee{}, wrap("CreateEmployee", err)
	}
	return e, nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (types.Employee, error) {
	var e types.Employee
	if err := s.coll(colEmployees).FindOne(ctx, byID(id)).Decode(&e); err != nil {
		return types.Employee{}, wrap("GetEmployee", err)
	}
	return normalizeEmployee(e), nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]types.Employee, error) {
	out, err := findAll[types.Employee](ctx, s.coll(colEmployees), bson.M{}, sortBy("created_at"))
	for i := range out {
		out[i] = normalizeEmployee(out[i])
	}
	return out, wrap("ListEmployees", err)
}

func (s *Store) UpdateEmployee(ctx context.Context, id string, e types.Employee) (types.Employee, error) {
	e = normalizeEmployee(e)
	var updated types.Employee
	err := s.coll(colEmployees).FindOneAndUpdate(ctx, byID(id), bson.M{"$set": bson.M{
		"name":       e.Name,
		"email":      e.Email,
		"mobile":     e.Mobile,
		"country":    e.Country,
		"state":      e.State,
		"district":   e.District,
		"gender":     e.Gender,
		"languages":  e.Languages,
		"updated_at": s.now(),
	}}, after()).Decode(&updated)
	if err != nil {
		return types.Employee{}, wrap("UpdateEmployee", err)
	}
	return normalizeEmployee(updated), nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	return wrap("DeleteEmployee", deleteOne(ctx, s.coll(colEmployees), id))
}

// ── Students ────────────────────────────────────────────────────────────

func (s *Store) CreateStudent(ctx context.Context, st types.Student) (types.Student, error) {
	now := s.now()
	st.Meta = types.Meta{ID: newID(), CreatedAt: now, UpdatedAt: now}
	if _, err := s.coll(colStudents).InsertOne(ctx, st); err != nil {
		return types.Student{}, wrap("CreateStudent", err)
	}
	return st, nil
}

func (s *Store) GetStudent(ctx context.Context, id string) (types.Student, error) {
	var st types.Student
	if err := s.coll(colStudents).FindOne(ctx, byID(id)).Decode(&st); err != nil {
		return types.Student{}, wrap("GetStudent", err)
	}
	return st, nil
}

func (s *Store) ListStudents(ctx context.Context) ([]types.Student, error) {
	out, err := findAll[types.Student](ctx, s.coll(colStudents), bson.M{}, sortBy("created_at"))
	return out, wrap("ListStudents", err)
}

func (s *Store) UpdateStudent(ctx context.Context, id string, st types.Student) (types.Student, error) {
	var updated types.Student
	err := s.coll(colStudents).FindOneAndUpdate(ctx, byID(id), bson.M{"$set": bson.M{
		"name":       st.Name,
		"email":      st.Email,
		"mobile":     st.Mobile,
		"country":    st.Country,
		"state":      st.State,
		"district":   st.District,
		"gender":     st.Gender,
		"updated_at": s.now(),
	}}, after()).Decode(&updated)
	if err != nil {
		return types.Student{}, wrap("UpdateStudent", err)
	}
	return updated, nil
}

func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	return wrap("DeleteStudent", deleteOne(ctx, s.coll(colStudents), id))
}

func (s *Store) SearchStudents(ctx context.Context, f types.StudentFilter) ([]types.Student, error) {
	out, err := findAll[types.Student](ctx, s.coll(colStudents), studentSearchFilter(f), sortBy("created_at"))
	return out, wrap("SearchStudents", err)
}

// studentSearchFilter turns every non-empty filter into a quoted,
// case-insensitive regex; fields are implicitly ANDed.
func studentSearchFilter(f types.StudentFilter) bson.M {
	filter := bson.M{}
	for field, term := range f.Fields() {
		filter[field] = bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
	}
	return filter
}
