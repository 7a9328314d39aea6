package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/pkg/clock"
	"cnkcrm/internal/pkg/jwt"
	"cnkcrm/internal/pkg/utils"
	"cnkcrm/internal/store"
)

// resetCode is the fixed code accepted by the mock password reset flow.
const resetCode = "123456"

type session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Service signs users in against the local users table and keeps the
// signed in user in memory and in app_settings.
type Service struct {
	users    UserTable
	settings SettingTable
	tokens   *jwt.Service
	log      *zap.Logger
	latency  time.Duration
	now      clock.Clock

	mu      sync.RWMutex
	current *domain.User
}

type Option func(*Service)

// WithLatency delays every remote looking call by d.
func WithLatency(d time.Duration) Option {
	return func(s *Service) { s.latency = d }
}

func WithClock(now clock.Clock) Option {
	return func(s *Service) { s.now = now }
}

func NewService(users UserTable, settings SettingTable, tokens *jwt.Service, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		users:    users,
		settings: settings,
		tokens:   tokens,
		log:      log,
		now:      clock.System,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks the password of the user with the given username, matched
// case-insensitively, and starts a session.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	if err := utils.Wait(ctx, s.latency); err != nil {
		return nil, err
	}

	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Info("login rejected", zap.String("username", user.Username))
		return nil, ErrInvalidPassword
	}

	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	raw, err := json.Marshal(session{Token: token, UserID: user.ID, CreatedAt: s.now()})
	if err != nil {
		return nil, err
	}
	if err := s.settings.Put(ctx, &domain.Setting{Key: domain.SettingSession, Value: string(raw), UpdatedAt: s.now()}); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.setCurrent(user)
	s.log.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return sanitize(user), nil
}

// Resume restores the session saved by a previous Login. An expired or
// tampered token is discarded.
func (s *Service) Resume(ctx context.Context) (*domain.User, error) {
	row, err := s.settings.Get(ctx, domain.SettingSession)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var sess session
	if err := json.Unmarshal([]byte(row.Value), &sess); err != nil {
		s.log.Warn("discarding unreadable session", zap.Error(err))
		return nil, s.dropSession(ctx)
	}
	claims, err := s.tokens.WithClock(s.now).ValidateToken(sess.Token)
	if err != nil {
		s.log.Info("session expired")
		return nil, s.dropSession(ctx)
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, s.dropSession(ctx)
	}
	if err != nil {
		return nil, err
	}
	s.setCurrent(user)
	return sanitize(user), nil
}

func (s *Service) Logout(ctx context.Context) error {
	s.setCurrent(nil)
	if err := s.settings.Delete(ctx, domain.SettingSession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// CurrentUser returns the signed in user or nil.
func (s *Service) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	return sanitize(s.current)
}

// Users lists every user without password hashes.
func (s *Service) Users(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.All(ctx, "username", false)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// SendPasswordResetCode pretends to mail a reset code to the user.
func (s *Service) SendPasswordResetCode(ctx context.Context, username string) error {
	if err := utils.Wait(ctx, s.latency); err != nil {
		return err
	}
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return err
	}
	s.log.Info("password reset code sent", zap.String("user_id", user.ID))
	return nil
}

func (s *Service) VerifyPasswordResetCode(ctx context.Context, code string) error {
	if err := utils.Wait(ctx, s.latency); err != nil {
		return err
	}
	if strings.TrimSpace(code) != resetCode {
		return ErrInvalidCode
	}
	return nil
}

func (s *Service) findByUsername(ctx context.Context, username string) (*domain.User, error) {
	rows, err := s.users.Find(ctx, store.Query{Index: "username", Equals: strings.ToLower(strings.TrimSpace(username)), Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrUserNotFound
	}
	return &rows[0], nil
}

func (s *Service) dropSession(ctx context.Context) error {
	if err := s.settings.Delete(ctx, domain.SettingSession); err != nil {
		return err
	}
	return ErrNoSession
}

func (s *Service) setCurrent(u *domain.User) {
	s.mu.Lock()
	s.current = u
	s.mu.Unlock()
}

func sanitize(u *domain.User) *domain.User {
	c := *u
	c.PasswordHash = ""
	return &c
}
