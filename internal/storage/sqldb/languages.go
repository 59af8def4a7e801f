package sqldb

import (
	"context"

	"github.com/Sonukathat/shiwansh-project/internal/types"
)

const languageColumns = `id, name, created_at, updated_at`

func scanLanguage(row interface{ Scan(...any) error }) (types.Language, error) {
	var (
		l  types.Language
		id int64
	)
	err := row.Scan(&id, &l.Name, timestamp{&l.CreatedAt}, timestamp{&l.UpdatedAt})
	l.ID = formatID(id)
	return l, err
}

func (s *Store) CreateLanguage(ctx context.Context, name string) (types.Language, error) {
	now := s.now()
	l, err := scanLanguage(s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO languages (name, created_at, updated_at)
		VALUES (?, ?, ?)
		RETURNING `+languageColumns),
		name, now, now,
	))
	if err != nil {
		return types.Language{}, s.wrap("CreateLanguage", err)
	}
	return l, nil
}

func (s *Store) GetLanguage(ctx context.Context, id string) (types.Language, error) {
	n, err := parseID(id)
	if err != nil {
		return types.Language{}, s.wrap("GetLanguage", err)
	}
	l, err := scanLanguage(s.db.QueryRowContext(ctx,
		s.q(`SELECT `+languageColumns+` FROM languages WHERE id = ?`), n))
	if err != nil {
		return types.Language{}, s.wrap("GetLanguage", err)
	}
	return l, nil
}

func (s *Store) ListLanguages(ctx context.Context) ([]types.Language, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+languageColumns+` FROM languages ORDER BY name`))
	if err != nil {
		return nil, s.wrap("ListLanguages: query", err)
	}
	defer rows.Close()

	languages := make([]types.Language, 0)
	for rows.Next() {
		l, err := scanLanguage(rows)
		if err != nil {
			return nil, s.wrap("ListLanguages: scan", err)
		}
		languages = append(languages, l)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("ListLanguages: rows", err)
	}
	return languages, nil
}

func (s *Store) UpdateLanguage(ctx context.Context, id string, name string) (types.Language, error) {
	n, err := parseID(id)
	if err != nil {
		return types.Language{}, s.wrap("UpdateLanguage", err)
	}
	l, err := scanLanguage(s.db.QueryRowContext(ctx, s.q(`
		UPDATE languages SET name = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+languageColumns),
		name, s.now(), n,
	))
	if err != nil {
		return types.Language{}, s.wrap("UpdateLanguage", err)
	}
	return l, nil
}

func (s *Store) DeleteLanguage(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return s.wrap("DeleteLanguage", err)
	}
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM languages WHERE id = ?`), n)
	if err != nil {
		return s.wrap("DeleteLanguage: exec", err)
	}
	return s.wrap("DeleteLanguage", mustAffect(res))
}
