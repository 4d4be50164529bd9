package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rickcomics/myprotectivemasks/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

// SessionStore keeps test sessions in Redis, one JSON value per user. A zero
// TTL means entries never expire, which matches the default session policy;
// a positive TTL bounds abandoned sessions for operators that want it.
type SessionStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewSessionStore(client *goredis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Get(ctx context.Context, userID int64) (*domain.Session, bool, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get session: %w", err)
	}
	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, true, nil
}

func (s *SessionStore) Create(ctx context.Context, userID int64) (*domain.Session, error) {
	session := &domain.Session{UserID: userID}
	if err := s.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(session.UserID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(userID int64) string {
	return "masks:session:" + strconv.FormatInt(userID, 10)
}
