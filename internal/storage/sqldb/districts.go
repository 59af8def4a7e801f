package sqldb

import (
	"context"
	"strings"

	"github.com/Sonukathat/shiwansh-project/internal/types"
)

const districtColumns = `id, country, state, district, created_at, updated_at`

func scanDistrict(row interface{ Scan(...any) error }) (types.District, error) {
	var (
		d  types.District
		id int64
	)
	err := row.Scan(&id, &d.Country, &d.State, &d.District, timestamp{&d.CreatedAt}, timestamp{&d.UpdatedAt})
	d.ID = formatID(id)
	return d, err
}

func (s *Store) CreateDistrict(ctx context.Context, d types.District) (types.District, error) {
	now := s.now()
	row := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO districts (country, state, district, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+districtColumns),
		d.Country, d.State, d.District, now, now,
	)
	created, err := scanDistrict(row)
	if err != nil {
		return types.District{}, s.wrap("CreateDistrict", err)
	}
	return created, nil
}

func (s *Store) GetDistrict(ctx context.Context, id string) (types.District, error) {
	n, err := parseID(id)
	if err != nil {
		return types.District{}, s.wrap("GetDistrict", err)
	}
	d, err := scanDistrict(s.db.QueryRowContext(ctx,
		s.q(`SELECT `+districtColumns+` FROM districts WHERE id = ?`), n))
	if err != nil {
		return types.District{}, s.wrap("GetDistrict", err)
	}
	return d, nil
}

func (s *Store) ListDistricts(ctx context.Context) ([]types.District, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT `+districtColumns+` FROM districts ORDER BY country, state, district`))
	if err != nil {
		return nil, s.wrap("ListDistricts: query", err)
	}
	defer rows.Close()

	districts := make([]types.District, 0)
	for rows.Next() {
		d, err := scanDistrict(rows)
		if err != nil {
			return nil, s.wrap("ListDistricts: scan", err)
		}
		districts = append(districts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("ListDistricts: rows", err)
	}
	return districts, nil
}

func (s *Store) UpdateDistrict(ctx context.Context, id string, d types.District) (types.District, error) {
	n, err := parseID(id)
	if err != nil {
		return types.District{}, s.wrap("UpdateDistrict", err)
	}
	row := s.db.QueryRowContext(ctx, s.q(`
		UPDATE districts SET country = ?, state = ?, district = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+districtColumns),
		d.Country, d.State, d.District, s.now(), n,
	)
	updated, err := scanDistrict(row)
	if err != nil {
		return types.District{}, s.wrap("UpdateDistrict", err)
	}
	return updated, nil
}

func (s *Store) DeleteDistrict(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return s.wrap("DeleteDistrict", err)
	}
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM districts WHERE id = ?`), n)
	if err != nil {
		return s.wrap("DeleteDistrict: exec", err)
	}
	return s.wrap("DeleteDistrict", mustAffect(res))
}

func (s *Store) DeleteDistrictsByCountry(ctx context.Context, country string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM districts WHERE country = ?`), country)
	if err != nil {
		return 0, s.wrap("DeleteDistrictsByCountry", err)
	}
	n, err := res.RowsAffected()
	return n, s.wrap("DeleteDistrictsByCountry", err)
}

func (s *Store) DeleteDistrictsByStates(ctx context.Context, country string, states []string) (int64, error) {
	if len(states) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(states)+1)
	args = append(args, country)
	for _, st := range states {
		args = append(args, st)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(states)), ", ")
	res, err := s.db.ExecContext(ctx,
		s.q(`DELETE FROM districts WHERE country = ? AND state IN (`+placeholders+`)`), args...)
	if err != nil {
		return 0, s.wrap("DeleteDistrictsByStates", err)
	}
	n, err := res.RowsAffected()
	return n, s.wrap("DeleteDistrictsByStates", err)
}
