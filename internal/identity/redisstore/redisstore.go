// Package redisstore implements the identity account and session stores on
// Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionTTL = 24 * time.Hour

// AccountStore persists account→identity links. Links are durable: no TTL.
type AccountStore struct {
	client *redis.Client
}

// NewAccountStore creates a new account store
func NewAccountStore(client *redis.Client) *AccountStore {
	return &AccountStore{client: client}
}

func (s *AccountStore) Get(ctx context.Context, userID string) (string, error) {
	val, err := s.client.Get(ctx, accountKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get account identity: %w", err)
	}
	return val, nil
}

// SetIfAbsent links an identity to an account. SETNX keeps the operation
// idempotent and non-clobbering.
func (s *AccountStore) SetIfAbsent(ctx context.Context, userID, identityID string) error {
	if err := s.client.SetNX(ctx, accountKey(userID), identityID, 0).Err(); err != nil {
		return fmt.Errorf("failed to link account identity: %w", err)
	}
	return nil
}

// SessionStore holds the identity for the lifetime of a server-side session.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new session store
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	val, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get session identity: %w", err)
	}
	return val, nil
}

func (s *SessionStore) Set(ctx context.Context, sessionID, identityID string) error {
	if err := s.client.Set(ctx, sessionKey(sessionID), identityID, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to set session identity: %w", err)
	}
	return nil
}

func accountKey(userID string) string {
	return "identity:account:" + userID
}

func sessionKey(sessionID string) string {
	return "identity:session:" + sessionID
}
