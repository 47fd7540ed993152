package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charlesng35/storeadmin/internal/cache"
	"github.com/charlesng35/storeadmin/internal/models"
)

const tokenCacheKeyPrefix = "auth:tokens:"

var errTokenCacheMiss = errors.New("token cache miss")

// TokenCache caches personal access token rows keyed by token id.
type TokenCache interface {
	Get(ctx context.Context, tokenID string) (*models.PersonalAccessToken, error)
	Set(ctx context.Context, token *models.PersonalAccessToken, ttl time.Duration) error
	Delete(ctx context.Context, tokenIDs ...string) error
}

// NewTokenCache wraps a shared cache store. A nil store yields a nil cache.
func NewTokenCache(store cache.Store) TokenCache {
	if store == nil {
		return nil
	}
	return &tokenStoreCache{store: store}
}

type tokenStoreCache struct {
	store cache.Store
}

// cachedToken mirrors the row including the digest, which the model hides
// from JSON.
type cachedToken struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	TokenType  string     `json:"token_type"`
	TokenHash  string     `json:"token_hash"`
	Abilities  []string   `json:"abilities"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (c *tokenStoreCache) Get(ctx context.Context, tokenID string) (*models.PersonalAccessToken, error) {
	key := tokenCacheKey(tokenID)
	if key == "" {
		return nil, errTokenCacheMiss
	}

	data, found, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errTokenCacheMiss
	}

	var entry cachedToken
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("token cache: decode: %w", err)
	}

	token := &models.PersonalAccessToken{
		UserID:     entry.UserID,
		Name:       entry.Name,
		TokenType:  entry.TokenType,
		TokenHash:  entry.TokenHash,
		Abilities:  entry.Abilities,
		LastUsedAt: entry.LastUsedAt,
		ExpiresAt:  entry.ExpiresAt,
	}
	token.ID = entry.ID
	token.CreatedAt = entry.CreatedAt
	return token, nil
}

func (c *tokenStoreCache) Set(ctx context.Context, token *models.PersonalAccessToken, ttl time.Duration) error {
	if token == nil {
		return errors.New("token cache: token is nil")
	}
	key := tokenCacheKey(token.ID)
	if key == "" {
		return errors.New("token cache: token id missing")
	}

	payload, err := json.Marshal(cachedToken{
		ID:         token.ID,
		UserID:     token.UserID,
		Name:       token.Name,
		TokenType:  token.TokenType,
		TokenHash:  token.TokenHash,
		Abilities:  token.Abilities,
		LastUsedAt: token.LastUsedAt,
		ExpiresAt:  token.ExpiresAt,
		CreatedAt:  token.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("token cache: marshal: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Second
	}

	return c.store.Set(ctx, key, payload, ttl)
}

func (c *tokenStoreCache) Delete(ctx context.Context, tokenIDs ...string) error {
	keys := make([]string, 0, len(tokenIDs))
	for _, id := range tokenIDs {
		if key := tokenCacheKey(id); key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return c.store.Delete(ctx, keys...)
}

func tokenCacheKey(tokenID string) string {
	id := strings.TrimSpace(tokenID)
	if id == "" {
		return ""
	}
	return tokenCacheKeyPrefix + id
}
