package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

const userColumns = "id, username, password_hash, full_name, role, avatar"

// users implements types.UserDirectory on the users table.
type users struct {
	b          *Backend
	insert     string
	byID       string
	byUsername string
	count      string
}

func newUsers(b *Backend) *users {
	d := b.dialect
	return &users{
		b:          b,
		insert:     d.rebind("INSERT INTO users (username, password_hash, full_name, role, avatar) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		byID:       d.rebind("SELECT " + userColumns + " FROM users WHERE id = ?"),
		byUsername: d.rebind("SELECT " + userColumns + " FROM users WHERE username = ?"),
		count:      "SELECT COUNT(*) FROM users",
	}
}

func (u *users) Create(ctx context.Context, user types.User) (types.User, error) {
	if user.Role == "" {
		user.Role = types.RoleUser
	}
	err := u.b.db.QueryRowContext(ctx, u.insert,
		user.Username, user.PasswordHash, user.FullName, user.Role, nullString(user.Avatar),
	).Scan(&user.ID)
	if err != nil {
		if u.b.dialect.conflict(err) {
			return types.User{}, fmt.Errorf("username %q: %w", user.Username, types.ErrConflict)
		}
		return types.User{}, fmt.Errorf("inserting user: %w", err)
	}
	return user, nil
}

func (u *users) Get(ctx context.Context, id int64) (types.User, error) {
	return u.one(ctx, u.byID, id)
}

func (u *users) ByUsername(ctx context.Context, username string) (types.User, error) {
	return u.one(ctx, u.byUsername, username)
}

func (u *users) Count(ctx context.Context) (int, error) {
	var n int
	if err := u.b.db.QueryRowContext(ctx, u.count).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

func (u *users) one(ctx context.Context, query string, arg any) (types.User, error) {
	var (
		user   types.User
		avatar sql.NullString
	)
	err := u.b.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.FullName, &user.Role, &avatar,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return types.User{}, types.ErrNotFound
	}
	if err != nil {
		return types.User{}, fmt.Errorf("reading user: %w", err)
	}
	user.Avatar = stringPtr(avatar)
	return user, nil
}
