package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/noughts-crosses/internal/apperror"
	"github.com/rocketscienceinc/noughts-crosses/internal/entity"
)

const (
	sessionKeyPrefix = "session:"
	maxUpdateRetries = 10
)

// UpdateFunc changes a session in place. Returning an error aborts the
// update and nothing is written. It may run more than once.
type UpdateFunc func(session *entity.Session) error

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	// Update applies fn to the stored session atomically and returns the
	// saved result.
	Update(ctx context.Context, id string, fn UpdateFunc) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type dbSession struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository stores sessions in redis. Every write refreshes the
// key's ttl; a zero ttl keeps sessions forever.
func NewSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &dbSession{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbSession) CreateOrUpdate(ctx context.Context, session *entity.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	if err = that.client.Set(ctx, sessionKeyPrefix+session.ID, sessionJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	return that.get(ctx, that.client, sessionKeyPrefix+id)
}

// Update reads and writes the key inside WATCH/MULTI, so a write from another
// connection or process in between makes the transaction fail and retry.
func (that *dbSession) Update(ctx context.Context, id string, fn UpdateFunc) (*entity.Session, error) {
	key := sessionKeyPrefix + id

	var session *entity.Session
	txf := func(tx *redis.Tx) error {
		var err error
		if session, err = that.get(ctx, tx, key); err != nil {
			return err
		}

		if err = fn(session); err != nil {
			return err
		}

		sessionJSON, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("could not marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, sessionJSON, that.ttl)
			return nil
		})

		return err
	}

	for range maxUpdateRetries {
		err := that.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if err != nil {
			return nil, err
		}

		return session, nil
	}

	return nil, fmt.Errorf("%w: %s", apperror.ErrSessionConflict, id)
}

func (that *dbSession) get(ctx context.Context, client stringGetter, key string) (*entity.Session, error) {
	response, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	var session entity.Session
	if err = json.Unmarshal([]byte(response), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session by id: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrSessionNotFound
	}

	return nil
}
