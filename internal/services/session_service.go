package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quizarena/backend/internal/config"
	"github.com/quizarena/backend/internal/dto"
	"github.com/quizarena/backend/internal/faults"
	"github.com/quizarena/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountBanned      = errors.New("account is banned")
)

// SessionStore owns opaque game-session tokens. It is the single component
// holding session state; there is no in-process token cache.
type SessionStore interface {
	// Resolve returns the live token row for a hash, if any.
	Resolve(tokenHash string) (*models.SessionToken, error)
	// NewerIssued reports whether a token issued after issuedAt exists for
	// the account. Issuing a new token invalidates all prior ones.
	NewerIssued(accountID int64, issuedAt time.Time) (bool, error)
	// Issue creates a fresh token for the account, revoking prior live
	// tokens in the same transaction, and returns the raw token.
	Issue(accountID int64, ttl time.Duration) (string, *models.SessionToken, error)
	Revoke(tokenHash string) error
	// Evict removes the given row and any expired rows for its account.
	Evict(token *models.SessionToken) error
}

type GormSessionStore struct {
	db *gorm.DB
}

func NewGormSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{db: db}
}

func (s *GormSessionStore) Resolve(tokenHash string) (*models.SessionToken, error) {
	var token models.SessionToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *GormSessionStore) NewerIssued(accountID int64, issuedAt time.Time) (bool, error) {
	var count int64
	err := s.db.Model(&models.SessionToken{}).
		Where("account_id = ? AND issued_at > ? AND revoked = false", accountID, issuedAt).
		Count(&count).Error
	return count > 0, err
}

func (s *GormSessionStore) Issue(accountID int64, ttl time.Duration) (string, *models.SessionToken, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	now := time.Now().UTC()
	record := models.SessionToken{
		AccountID: accountID,
		TokenHash: HashToken(rawToken),
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.SessionToken{}).
			Where("account_id = ? AND revoked = false", accountID).
			Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to store session token: %w", err)
	}
	return rawToken, &record, nil
}

func (s *GormSessionStore) Revoke(tokenHash string) error {
	return s.db.Model(&models.SessionToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

func (s *GormSessionStore) Evict(token *models.SessionToken) error {
	return s.db.
		Where("id = ? OR (account_id = ? AND expires_at < ?)", token.ID, token.AccountID, time.Now().UTC()).
		Delete(&models.SessionToken{}).Error
}

// SessionService resolves opaque session tokens to acting accounts and
// issues them at login.
type SessionService struct {
	db    *gorm.DB
	store SessionStore
	cfg   *config.Config
}

func NewSessionService(db *gorm.DB, store SessionStore, cfg *config.Config) *SessionService {
	return &SessionService{db: db, store: store, cfg: cfg}
}

// Authenticate resolves a session token to the acting account id. Blank,
// unknown, revoked or expired tokens, non-positive account ids and tokens
// superseded by a newer one all fail with TokenInvalid. Read-only apart
// from opportunistic eviction of expired rows.
func (s *SessionService) Authenticate(token string) (int64, error) {
	if strings.TrimSpace(token) == "" {
		return 0, faults.ErrTokenInvalid
	}
	record, err := s.store.Resolve(HashToken(token))
	if err != nil {
		return 0, faults.ErrTokenInvalid
	}
	if time.Now().UTC().After(record.ExpiresAt) {
		_ = s.store.Evict(record)
		return 0, faults.ErrTokenInvalid
	}
	if record.AccountID <= 0 {
		return 0, faults.ErrTokenInvalid
	}
	newer, err := s.store.NewerIssued(record.AccountID, record.IssuedAt)
	if err != nil || newer {
		return 0, faults.ErrTokenInvalid
	}
	return record.AccountID, nil
}

// Login verifies credentials and issues a fresh session token, invalidating
// prior sessions for the account. Staff accounts additionally receive a JWT
// for the admin console.
func (s *SessionService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	var account models.Account
	if err := s.db.Where("username = ?", req.Username).First(&account).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if account.BannedAt != nil {
		return nil, ErrAccountBanned
	}

	rawToken, record, err := s.store.Issue(account.ID, s.cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	resp := &dto.LoginResponse{
		SessionToken: rawToken,
		ExpiresAt:    record.ExpiresAt,
		Account: dto.AccountResponse{
			ID:       account.ID,
			Username: account.Username,
			Role:     account.Role,
		},
	}

	if account.Role == "admin" || account.Role == "moderator" {
		accessToken, err := s.generateAccessToken(&account)
		if err != nil {
			return nil, err
		}
		resp.AccessToken = accessToken
	}
	return resp, nil
}

func (s *SessionService) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.store.Revoke(HashToken(token))
}

func (s *SessionService) generateAccessToken(account *models.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":      fmt.Sprintf("%d", account.ID),
		"username": account.Username,
		"role":     account.Role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
