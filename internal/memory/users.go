package memory

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/realdesk/pkg/types"
)

// users is the in-memory user directory.
type users struct {
	b    *Backend
	byID map[int64]types.User
	next int64
}

func (u *users) Create(ctx context.Context, user types.User) (types.User, error) {
	u.b.mu.Lock()
	defer u.b.mu.Unlock()

	if u.b.closed {
		return types.User{}, types.ErrStoreClosed
	}
	for _, existing := range u.byID {
		if existing.Username == user.Username {
			return types.User{}, fmt.Errorf("username %q: %w", user.Username, types.ErrConflict)
		}
	}
	if user.Role == "" {
		user.Role = types.RoleUser
	}
	user.ID = u.next
	u.next++
	u.byID[user.ID] = cloneUser(user)
	return user, nil
}

func (u *users) Get(ctx context.Context, id int64) (types.User, error) {
	u.b.mu.RLock()
	defer u.b.mu.RUnlock()

	if u.b.closed {
		return types.User{}, types.ErrStoreClosed
	}
	user, ok := u.byID[id]
	if !ok {
		return types.User{}, types.ErrNotFound
	}
	return cloneUser(user), nil
}

func (u *users) ByUsername(ctx context.Context, username string) (types.User, error) {
	u.b.mu.RLock()
	defer u.b.mu.RUnlock()

	if u.b.closed {
		return types.User{}, types.ErrStoreClosed
	}
	for _, user := range u.byID {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}
	return types.User{}, types.ErrNotFound
}

func (u *users) Count(ctx context.Context) (int, error) {
	u.b.mu.RLock()
	defer u.b.mu.RUnlock()

	if u.b.closed {
		return 0, types.ErrStoreClosed
	}
	return len(u.byID), nil
}
