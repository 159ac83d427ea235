package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seller-console/internal/backend"
	"seller-console/internal/models"
	"seller-console/internal/redisclient"
	"seller-console/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotAuthenticated is returned when no live session exists for an ID.
var ErrNotAuthenticated = errors.New("not authenticated")

// Service owns the login/logout lifecycle. The session context replaces the
// ambient browser-storage identifiers the original pages read from.
type Service struct {
	backend *backend.Client
	store   *redisclient.Client
	logger  *zap.Logger
}

// NewService creates a session service.
func NewService(backendClient *backend.Client, store *redisclient.Client) *Service {
	return &Service{
		backend: backendClient,
		store:   store,
		logger:  util.GetLogger(),
	}
}

// Login authenticates with email/password and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Session, error) {
	ctx, span := util.StartSpan(ctx, "Session.Login")
	defer span.End()

	result, err := s.backend.StoreLogin(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, result)
}

// SendOTP requests a one-time code for a mobile number.
func (s *Service) SendOTP(ctx context.Context, mobile string) error {
	return s.backend.SendOTP(ctx, mobile)
}

// VerifyOTP exchanges a one-time code for a session.
func (s *Service) VerifyOTP(ctx context.Context, mobile, otp string) (*models.Session, error) {
	ctx, span := util.StartSpan(ctx, "Session.VerifyOTP")
	defer span.End()

	result, err := s.backend.VerifyOTP(ctx, mobile, otp)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, result)
}

func (s *Service) open(ctx context.Context, result *backend.LoginResult) (*models.Session, error) {
	session := &models.Session{
		ID:        uuid.New().String(),
		StoreID:   result.StoreID,
		SellerID:  result.SellerID,
		Token:     result.Token,
		UserType:  result.UserType,
		CreatedAt: time.Now(),
	}
	if session.StoreID == "" {
		session.StoreID = result.SellerID
	}

	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info("Session opened",
		zap.String("session_id", session.ID),
		zap.String("store_id", session.StoreID))
	return session, nil
}

// Get resolves a session ID to its context.
func (s *Service) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, ErrNotAuthenticated
	}
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	return session, nil
}

// Logout clears the session.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info("Session closed", zap.String("session_id", sessionID))
	return nil
}

// RegisterDeviceToken stores a push token with the backend and on the
// session for later teardown.
func (s *Service) RegisterDeviceToken(ctx context.Context, sessionID, token string) error {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.backend.RegisterDeviceToken(ctx, session.StoreID, token); err != nil {
		return err
	}
	session.FCMToken = token
	return s.store.SaveSession(ctx, session)
}
