package sqldb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sonukathat/shiwansh-project/internal/types"
)

const employeeColumns = `id, name, email, mobile, country, state, district, gender, languages, created_at, updated_at`

// stringList stores a []string as a JSON array in a TEXT column.
type stringList struct{ v *[]string }

func (l stringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l.v = []string{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported list type %T", src)
	}
	out := []string{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*l.v = out
	return nil
}

func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func scanEmployee(row interface{ Scan(...any) error }) (types.Employee, error) {
	var (
		e  types.Employee
		id int64
	)
	err := row.Scan(&id, &e.Name, &e.Email, &e.Mobile, &e.Country, &e.State, &e.District, &e.Gender,
		stringList{&e.Languages}, timestamp{&e.CreatedAt}, timestamp{&e.UpdatedAt})
	e.ID = formatID(id)
	return e, err
}

func (s *Store) CreateEmployee(ctx context.Context, e types.Employee) (types.Employee, error) {
	langs, err := encodeList(e.Languages)
	if err != nil {
		return types.Employee{}, s.wrap("CreateEmployee: encode languages", err)
	}
	now := s.now()
	created, err := scanEmployee(s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO employees (name, email, mobile, country, state, district, gender, languages, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+employeeColumns),
		e.Name, e.Email, e.Mobile, e.Country, e.State, e.District, e.Gender, langs, now, now,
	))
	if err != nil {
		return types.Employee{}, s.wrap("CreateEmployee", err)
	}
	return created, nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (types.Employee, error) {
	n, err := parseID(id)
	if err != nil {
		return types.Employee{}, s.wrap("GetEmployee", err)
	}
	e, err := scanEmployee(s.db.QueryRowContext(ctx,
		s.q(`SELECT `+employeeColumns+` FROM employees WHERE id = ?`), n))
	if err != nil {
		return types.Employee{}, s.wrap("GetEmployee", err)
	}
	return e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]types.Employee, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+employeeColumns+` FROM employees ORDER BY id`))
	if err != nil {
		return nil, s.wrap("ListEmployees: query", err)
	}
	defer rows.Close()

	employees := make([]types.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, s.wrap("ListEmployees: scan", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("ListEmployees: rows", err)
	}
	return employees, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, id string, e types.Employee) (types.Employee, error) {
	n, err := parseID(id)
	if err != nil {
		return types.Employee{}, s.wrap("UpdateEmployee", err)
	}
	langs, err := encodeList(e.Languages)
	if err != nil {
		return types.Employee{}, s.wrap("UpdateEmployee: encode languages", err)
	}
	updated, err := scanEmployee(s.db.QueryRowContext(ctx, s.q(`
		UPDATE employees
		SET name = ?, email = ?, mobile = ?, country = ?, state = ?, district = ?, gender = ?, languages = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+employeeColumns),
		e.Name, e.Email, e.Mobile, e.Country, e.State, e.District, e.Gender, langs, s.now(), n,
	))
	if err != nil {
		return types.Employee{}, s.wrap("UpdateEmployee", err)
	}
	return updated, nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return s.wrap("DeleteEmployee", err)
	}
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM employees WHERE id = ?`), n)
	if err != nil {
		return s.wrap("DeleteEmployee: exec", err)
	}
	return s.wrap("DeleteEmployee", mustAffect(res))
}
