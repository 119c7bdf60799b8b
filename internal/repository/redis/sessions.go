package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kirinyoku/voyago/internal/domain"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore reads sessions written by the external login flow. Each
// session lives at <prefix>:<token> as a JSON blob with the user id and role;
// this service only resolves tokens, it never creates them.
type SessionStore struct {
	rdb    *redis.Client
	prefix string
}

func NewSessionStore(rdb *redis.Client, prefix string) *SessionStore {
	return &SessionStore{rdb: rdb, prefix: prefix}
}

func (s *SessionStore) key(token string) string {
	return fmt.Sprintf("%s:%s", s.prefix, token)
}

func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Actor, error) {
	const op = "redisrepo.SessionStore.Get"

	v, err := s.rdb.Get(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("%s:%w", op, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var actor domain.Actor
	if err := json.Unmarshal([]byte(v), &actor); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if actor.UserID == 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrSessionNotFound)
	}

	return &actor, nil
}
