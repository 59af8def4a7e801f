package sqldb

import (
	"context"

	"github.com/Sonukathat/shiwansh-project/internal/types"
)

const userColumns = `id, name, email, mobile, image, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (types.User, error) {
	var (
		u  types.User
		id int64
	)
	err := row.Scan(&id, &u.Name, &u.Email, &u.Mobile, &u.Image, timestamp{&u.CreatedAt}, timestamp{&u.UpdatedAt})
	u.ID = formatID(id)
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, u types.User) (types.User, error) {
	now := s.now()
	created, err := scanUser(s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO users (name, email, mobile, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+userColumns),
		u.Name, u.Email, u.Mobile, u.Image, now, now,
	))
	if err != nil {
		return types.User{}, s.wrap("CreateUser", err)
	}
	return created, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (types.User, error) {
	n, err := parseID(id)
	if err != nil {
		return types.User{}, s.wrap("GetUser", err)
	}
	u, err := scanUser(s.db.QueryRowContext(ctx,
		s.q(`SELECT `+userColumns+` FROM users WHERE id = ?`), n))
	if err != nil {
		return types.User{}, s.wrap("GetUser", err)
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]types.User, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+userColumns+` FROM users ORDER BY id`))
	if err != nil {
		return nil, s.wrap("ListUsers: query", err)
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, s.wrap("ListUsers: scan", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("ListUsers: rows", err)
	}
	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, u types.User) (types.User, error) {
	n, err := parseID(id)
	if err != nil {
		return types.User{}, s.wrap("UpdateUser", err)
	}
	updated, err := scanUser(s.db.QueryRowContext(ctx, s.q(`
		UPDATE users SET name = ?, email = ?, mobile = ?, image = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+userColumns),
		u.Name, u.Email, u.Mobile, u.Image, s.now(), n,
	))
	if err != nil {
		return types.User{}, s.wrap("UpdateUser", err)
	}
	return updated, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) (types.User, error) {
	n, err := parseID(id)
	if err != nil {
		return types.User{}, s.wrap("DeleteUser", err)
	}
	deleted, err := scanUser(s.db.QueryRowContext(ctx,
		s.q(`DELETE FROM users WHERE id = ? RETURNING `+userColumns), n))
	if err != nil {
		return types.User{}, s.wrap("DeleteUser", err)
	}
	return deleted, nil
}
