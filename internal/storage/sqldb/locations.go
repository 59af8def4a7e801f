package sqldb

import (
	"context"
	"database/sql"

	"github.com/Sonukathat/shiwansh-project/internal/storage"
	"github.com/Sonukathat/shiwansh-project/internal/types"
)

// States live in their own table with a UNIQUE (location_id, name) index,
// which is what makes "add state" idempotent under concurrency. The
// position column keeps insertion order.

const selectLocations = `
	SELECT l.id, l.country, s.name
	FROM locations l
	LEFT JOIN location_states s ON s.location_id = l.id`

func (s *Store) ListLocations(ctx context.Context) ([]types.Location, error) {
	rows, err := s.db.QueryContext(ctx, s.q(selectLocations+` ORDER BY l.country, s.position`))
	if err != nil {
		return nil, s.wrap("ListLocations: query", err)
	}
	locations, err := scanLocations(rows)
	if err != nil {
		return nil, s.wrap("ListLocations: scan", err)
	}
	return locations, nil
}

func (s *Store) GetLocation(ctx context.Context, country string) (types.Location, error) {
	loc, err := s.loadLocation(ctx, s.db, country)
	return loc, s.wrap("GetLocation", err)
}

func (s *Store) CreateLocation(ctx context.Context, country string) (types.Location, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		s.q(`INSERT INTO locations (country) VALUES (?) RETURNING id`), country,
	).Scan(&id)
	if err != nil {
		return types.Location{}, s.wrap("CreateLocation: insert", err)
	}
	return types.Location{ID: formatID(id), Country: country, States: []string{}}, nil
}

func (s *Store) AddState(ctx context.Context, country, state string) (types.Location, error) {
	var loc types.Location
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := s.locationID(ctx, tx, country)
		if err != nil {
			return err
		}
		// The WHERE clause is required by SQLite for INSERT ... SELECT with
		// an upsert clause; the casts pin parameter types for Postgres.
		if _, err := tx.ExecContext(ctx, s.q(`
			INSERT INTO location_states (location_id, position, name)
			SELECT CAST(? AS BIGINT), COALESCE(MAX(position), 0) + 1, CAST(? AS TEXT)
			FROM location_states WHERE location_id = ?
			ON CONFLICT (location_id, name) DO NOTHING`),
			id, state, id,
		); err != nil {
			return err
		}
		loc, err = s.loadLocation(ctx, tx, country)
		return err
	})
	return loc, s.wrap("AddState", err)
}

func (s *Store) ReplaceStates(ctx context.Context, country string, states []string) (types.Location, error) {
	var loc types.Location
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := s.locationID(ctx, tx, country)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM location_states WHERE location_id = ?`), id); err != nil {
			return err
		}
		for i, state := range states {
			if _, err := tx.ExecContext(ctx,
				s.q(`INSERT INTO location_states (location_id, position, name) VALUES (?, ?, ?)`),
				id, i+1, state,
			); err != nil {
				return err
			}
		}
		loc, err = s.loadLocation(ctx, tx, country)
		return err
	})
	return loc, s.wrap("ReplaceStates", err)
}

func (s *Store) RemoveState(ctx context.Context, country, state string) (types.Location, error) {
	var loc types.Location
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := s.locationID(ctx, tx, country)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			s.q(`DELETE FROM location_states WHERE location_id = ? AND name = ?`), id, state,
		); err != nil {
			return err
		}
		loc, err = s.loadLocation(ctx, tx, country)
		return err
	})
	return loc, s.wrap("RemoveState", err)
}

func (s *Store) DeleteLocation(ctx context.Context, country string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := s.locationID(ctx, tx, country)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM location_states WHERE location_id = ?`), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, s.q(`DELETE FROM locations WHERE id = ?`), id)
		if err != nil {
			return err
		}
		return mustAffect(res)
	})
	return s.wrap("DeleteLocation", err)
}

func (s *Store) locationID(ctx context.Context, db querier, country string) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, s.q(`SELECT id FROM locations WHERE country = ?`), country).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, storage.ErrNotFound
	}
	return id, err
}

func (s *Store) loadLocation(ctx context.Context, db querier, country string) (types.Location, error) {
	rows, err := db.QueryContext(ctx, s.q(selectLocations+` WHERE l.country = ? ORDER BY s.position`), country)
	if err != nil {
		return types.Location{}, err
	}
	locations, err := scanLocations(rows)
	if err != nil {
		return types.Location{}, err
	}
	if len(locations) == 0 {
		return types.Location{}, storage.ErrNotFound
	}
	return locations[0], nil
}

// scanLocations folds the joined rows (one per state, or one with a NULL
// state for an empty location) into Locations, keeping row order.
func scanLocations(rows *sql.Rows) ([]types.Location, error) {
	defer rows.Close()

	locations := make([]types.Location, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var (
			id      int64
			country string
			state   sql.NullString
		)
		if err := rows.Scan(&id, &country, &state); err != nil {
			return nil, err
		}
		i, ok := index[id]
		if !ok {
			locations = append(locations, types.Location{ID: formatID(id), Country: country, States: []string{}})
			i = len(locations) - 1
			index[id] = i
		}
		if state.Valid {
			locations[i].States = append(locations[i].States, state.String)
		}
	}
	return locations, rows.Err()
}
