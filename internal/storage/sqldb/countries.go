package sqldb

import (
	"context"

	"github.com/Sonukathat/shiwansh-project/internal/types"
)

const countryColumns = `id, name, image, created_at, updated_at`

func scanCountry(row interface{ Scan(...any) error }) (types.Country, error) {
	var (
		c  types.Country
		id int64
	)
	err := row.Scan(&id, &c.Name, &c.Image, timestamp{&c.CreatedAt}, timestamp{&c.UpdatedAt})
	c.ID = formatID(id)
	return c, err
}

func (s *Store) CreateCountry(ctx context.Context, c types.Country) (types.Country, error) {
	now := s.now()
	created, err := scanCountry(s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO countries (name, image, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+countryColumns),
		c.Name, c.Image, now, now,
	))
	if err != nil {
		return types.Country{}, s.wrap("CreateCountry", err)
	}
	return created, nil
}

func (s *Store) GetCountry(ctx context.Context, id string) (types.Country, error) {
	n, err := parseID(id)
	if err != nil {
		return types.Country{}, s.wrap("GetCountry", err)
	}
	c, err := scanCountry(s.db.QueryRowContext(ctx,
		s.q(`SELECT `+countryColumns+` FROM countries WHERE id = ?`), n))
	if err != nil {
		return types.Country{}, s.wrap("GetCountry", err)
	}
	return c, nil
}

func (s *Store) ListCountries(ctx context.Context) ([]types.Country, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+countryColumns+` FROM countries ORDER BY name`))
	if err != nil {
		return nil, s.wrap("ListCountries: query", err)
	}
	defer rows.Close()

	countries := make([]types.Country, 0)
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, s.wrap("ListCountries: scan", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("ListCountries: rows", err)
	}
	return countries, nil
}

// UpdateCountry rewrites name and image; the caller passes the current
// image when it is not being replaced.
func (s *Store) UpdateCountry(ctx context.Context, id string, c types.Country) (types.Country, error) {
	n, err := parseID(id)
	if err != nil {
		return types.Country{}, s.wrap("UpdateCountry", err)
	}
	updated, err := scanCountry(s.db.QueryRowContext(ctx, s.q(`
		UPDATE countries SET name = ?, image = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+countryColumns),
		c.Name, c.Image, s.now(), n,
	))
	if err != nil {
		return types.Country{}, s.wrap("UpdateCountry", err)
	}
	return updated, nil
}

// DeleteCountry returns the removed record so its image can be released.
func (s *Store) DeleteCountry(ctx context.Context, id string) (types.Country, error) {
	n, err := parseID(id)
	if err != nil {
		return types.Country{}, s.wrap("DeleteCountry", err)
	}
	deleted, err := scanCountry(s.db.QueryRowContext(ctx,
		s.q(`DELETE FROM countries WHERE id = ? RETURNING `+countryColumns), n))
	if err != nil {
		return types.Country{}, s.wrap("DeleteCountry", err)
	}
	return deleted, nil
}
