package sqldb

import (
	"context"
	"sort"
	"strings"

	"github.com/Sonukathat/shiwansh-project/internal/types"
)

const studentColumns = `id, name, email, mobile, country, state, district, gender, created_at, updated_at`

func scanStudent(row interface{ Scan(...any) error }) (types.Student, error) {
	var (
		st types.Student
		id int64
	)
	err := row.Scan(&id, &st.Name, &st.Email, &st.Mobile, &st.Country, &st.State, &st.District, &st.Gender,
		timestamp{&st.CreatedAt}, timestamp{&st.UpdatedAt})
	st.ID = formatID(id)
	return st, err
}

func (s *Store) CreateStudent(ctx context.Context, st types.Student) (types.Student, error) {
	now := s.now()
	created, err := scanStudent(s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO students (name, email, mobile, country, state, district, gender, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+studentColumns),
		st.Name, st.Email, st.Mobile, st.Country, st.State, st.District, st.Gender, now, now,
	))
	if err != nil {
		return types.Student{}, s.wrap("CreateStudent", err)
	}
	return created, nil
}

func (s *Store) GetStudent(ctx context.Context, id string) (types.Student, error) {
	n, err := parseID(id)
	if err != nil {
		return types.Student{}, s.wrap("GetStudent", err)
	}
	st, err := scanStudent(s.db.QueryRowContext(ctx,
		s.q(`SELECT `+studentColumns+` FROM students WHERE id = ?`), n))
	if err != nil {
		return types.Student{}, s.wrap("GetStudent", err)
	}
	return st, nil
}

func (s *Store) ListStudents(ctx context.Context) ([]types.Student, error) {
	return s.queryStudents(ctx, "ListStudents", `SELECT `+studentColumns+` FROM students ORDER BY id`)
}

func (s *Store) UpdateStudent(ctx context.Context, id string, st types.Student) (types.Student, error) {
	n, err := parseID(id)
	if err != nil {
		return types.Student{}, s.wrap("UpdateStudent", err)
	}
	updated, err := scanStudent(s.db.QueryRowContext(ctx, s.q(`
		UPDATE students
		SET name = ?, email = ?, mobile = ?, country = ?, state = ?, district = ?, gender = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+studentColumns),
		st.Name, st.Email, st.Mobile, st.Country, st.State, st.District, st.Gender, s.now(), n,
	))
	if err != nil {
		return types.Student{}, s.wrap("UpdateStudent", err)
	}
	return updated, nil
}

func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return s.wrap("DeleteStudent", err)
	}
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM students WHERE id = ?`), n)
	if err != nil {
		return s.wrap("DeleteStudent: exec", err)
	}
	return s.wrap("DeleteStudent", mustAffect(res))
}

// SearchStudents builds one LIKE clause per non-empty filter. Column
// names come from StudentFilter.Fields, never from the request.
func (s *Store) SearchStudents(ctx context.Context, f types.StudentFilter) ([]types.Student, error) {
	fields := f.Fields()
	columns := make([]string, 0, len(fields))
	for col := range fields {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	query := `SELECT ` + studentColumns + ` FROM students`
	args := make([]any, 0, len(columns))
	if len(columns) > 0 {
		clauses := make([]string, 0, len(columns))
		for _, col := range columns {
			clauses = append(clauses, s.lower(col)+` LIKE ? ESCAPE '\'`)
			args = append(args, likePattern(fields[col]))
		}
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	return s.queryStudents(ctx, "SearchStudents", query+` ORDER BY id`, args...)
}

func (s *Store) queryStudents(ctx context.Context, op, query string, args ...any) ([]types.Student, error) {
	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, s.wrap(op+": query", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, s.wrap(op+": scan", err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap(op+": rows", err)
	}
	return students, nil
}
