package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/storeadmin/internal/models"
	"github.com/charlesng35/storeadmin/pkg/crypto"
	"github.com/charlesng35/storeadmin/pkg/logger"
	"github.com/charlesng35/storeadmin/pkg/metrics"
)

// lastUsedResolution bounds how often verification writes last_used_at.
const lastUsedResolution = time.Minute

// TokenConfig describes tunable behaviour for the TokenService.
type TokenConfig struct {
	// TTL overrides the JWT service lifetime for personal access tokens.
	TTL   time.Duration
	Clock func() time.Time
	Cache TokenCache
}

// IssuedToken is the bearer token handed to a client together with its row.
type IssuedToken struct {
	Token     string
	TokenType string
	ExpiresIn int64
	ExpiresAt time.Time
	Record    *models.PersonalAccessToken
}

var (
	// ErrTokenNotFound indicates that no personal access token matches.
	ErrTokenNotFound = errors.New("token: not found")
	// ErrTokenRevoked marks a token that has been revoked.
	ErrTokenRevoked = errors.New("token: revoked")
	// ErrTokenExpired signals a token past its expiry.
	ErrTokenExpired = errors.New("token: expired")
	// ErrTokenInvalid is returned for malformed or forged tokens.
	ErrTokenInvalid = errors.New("token: invalid")
)

// TokenService issues, verifies and revokes personal access tokens. Every
// bearer token is a signed JWT whose id names a personal_access_tokens row;
// the token stays usable only while that row is active.
type TokenService struct {
	db    *gorm.DB
	jwt   *JWTService
	ttl   time.Duration
	now   func() time.Time
	cache TokenCache
	log   *zap.Logger
}

// NewTokenService constructs a token manager backed by the provided database and JWT service.
func NewTokenService(db *gorm.DB, jwtService *JWTService, cfg TokenConfig) (*TokenService, error) {
	if db == nil {
		return nil, errors.New("token service: db is required")
	}
	if jwtService == nil {
		return nil, errors.New("token service: jwt service is required")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = jwtService.TTL()
	}

	clock := time.Now
	if cfg.Clock != nil {
		clock = cfg.Clock
	}

	return &TokenService{
		db:    db,
		jwt:   jwtService,
		ttl:   ttl,
		now:   clock,
		cache: cfg.Cache,
		log:   logger.WithModule("tokens"),
	}, nil
}

// Issue creates a personal access token for the user. Abilities default to "*".
func (s *TokenService) Issue(ctx context.Context, userID, name string, abilities []string) (*IssuedToken, error) {
	return s.issue(ctx, s.db, userID, name, abilities)
}

func (s *TokenService) issue(ctx context.Context, db *gorm.DB, userID, name string, abilities []string) (*IssuedToken, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("token service: user id is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = models.LoginTokenName
	}
	if len(abilities) == 0 {
		abilities = []string{"*"}
	}

	now := s.now()
	record := &models.PersonalAccessToken{
		UserID:    userID,
		Name:      name,
		TokenType: models.BearerTokenType,
		Abilities: append([]string(nil), abilities...),
		ExpiresAt: now.Add(s.ttl),
	}
	record.ID = uuid.NewString()

	signed, err := s.jwt.GenerateAccessToken(AccessTokenInput{
		UserID:    userID,
		TokenID:   record.ID,
		Abilities: record.Abilities,
		ExpiresAt: record.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("token service: generate access token: %w", err)
	}
	record.TokenHash = crypto.HashToken(signed)

	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("token service: create token: %w", err)
	}

	return &IssuedToken{
		Token:     signed,
		TokenType: models.BearerTokenType,
		ExpiresIn: int64(s.ttl / time.Second),
		ExpiresAt: record.ExpiresAt,
		Record:    record,
	}, nil
}

// Verify validates a raw bearer token and returns its active row.
func (s *TokenService) Verify(ctx context.Context, raw string) (*models.PersonalAccessToken, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrTokenInvalid
	}

	claims, err := s.jwt.ValidateAccessToken(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.TokenID == "" {
		return nil, ErrTokenInvalid
	}

	token, err := s.lookup(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}

	if !crypto.TokenMatches(token.TokenHash, raw) || token.UserID != claims.UserID {
		return nil, ErrTokenInvalid
	}

	now := s.now()
	if !now.Before(token.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	s.touch(ctx, token, now)
	return token, nil
}

// lookup resolves a token row, consulting the cache first.
func (s *TokenService) lookup(ctx context.Context, tokenID string) (*models.PersonalAccessToken, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, tokenID)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil && !errors.Is(err, errTokenCacheMiss) {
			s.log.Warn("token cache read failed", zap.String("token_id", tokenID), zap.Error(err))
		}
	}

	var token models.PersonalAccessToken
	err := s.db.WithContext(ctx).Unscoped().Take(&token, "id = ?", tokenID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("token service: find token: %w", err)
	}
	if token.DeletedAt.Valid {
		return nil, ErrTokenRevoked
	}

	if s.cache != nil {
		if ttl := token.ExpiresAt.Sub(s.now()); ttl > 0 {
			if err := s.cache.Set(ctx, &token, ttl); err != nil {
				s.log.Warn("token cache write failed", zap.String("token_id", tokenID), zap.Error(err))
			}
		}
	}

	return &token, nil
}

func (s *TokenService) touch(ctx context.Context, token *models.PersonalAccessToken, now time.Time) {
	if token.LastUsedAt != nil && now.Sub(*token.LastUsedAt) < lastUsedResolution {
		return
	}
	if err := s.db.WithContext(ctx).
		Model(&models.PersonalAccessToken{}).
		Where("id = ?", token.ID).
		UpdateColumn("last_used_at", now).Error; err != nil {
		s.log.Warn("failed to record token usage", zap.String("token_id", token.ID), zap.Error(err))
		return
	}
	token.LastUsedAt = &now
}

// Refresh revokes the presented token and issues a replacement with the same
// name and abilities.
func (s *TokenService) Refresh(ctx context.Context, raw string) (*IssuedToken, error) {
	current, err := s.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}

	var issued *IssuedToken
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", current.ID).Delete(&models.PersonalAccessToken{})
		if result.Error != nil {
			return fmt.Errorf("token service: revoke token: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTokenRevoked
		}

		next, err := s.issue(ctx, tx, current.UserID, current.Name, current.Abilities)
		if err != nil {
			return err
		}
		issued = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.evict(ctx, current.ID)
	return issued, nil
}

// Revoke soft deletes the token with the given id.
func (s *TokenService) Revoke(ctx context.Context, tokenID string) error {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return ErrTokenInvalid
	}

	result := s.db.WithContext(ctx).
		Where("id = ?", tokenID).
		Delete(&models.PersonalAccessToken{})
	if result.Error != nil {
		return fmt.Errorf("token service: revoke token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}

	s.evict(ctx, tokenID)
	return nil
}

// RevokeByValue revokes a raw token value owned by userID.
func (s *TokenService) RevokeByValue(ctx context.Context, userID, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.TrimSpace(userID) == "" {
		return ErrTokenNotFound
	}

	var token models.PersonalAccessToken
	err := s.db.WithContext(ctx).
		Select("id").
		Where("token_hash = ? AND user_id = ?", crypto.HashToken(raw), userID).
		Take(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTokenNotFound
	}
	if err != nil {
		return fmt.Errorf("token service: find token: %w", err)
	}

	return s.Revoke(ctx, token.ID)
}

// CleanupExpired permanently deletes expired and revoked tokens.
func (s *TokenService) CleanupExpired(ctx context.Context) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	now := s.now()
	stale := s.db.WithContext(ctx).Unscoped().
		Where("expires_at < ?", now).
		Or("deleted_at IS NOT NULL").
		Session(&gorm.Session{})

	var ids []string
	if s.cache != nil {
		if err := stale.
			Model(&models.PersonalAccessToken{}).
			Pluck("id", &ids).Error; err != nil {
			ids = nil
		}
	}

	result := stale.Delete(&models.PersonalAccessToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("token service: cleanup expired tokens: %w", result.Error)
	}

	if len(ids) > 0 {
		s.evict(ctx, ids...)
	}
	if result.RowsAffected > 0 {
		metrics.TokensCleaned.Add(float64(result.RowsAffected))
	}

	return result.RowsAffected, nil
}

func (s *TokenService) evict(ctx context.Context, ids ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, ids...); err != nil {
		s.log.Warn("token cache eviction failed", zap.Strings("token_ids", ids), zap.Error(err))
	}
}
