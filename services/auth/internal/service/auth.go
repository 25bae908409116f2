package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/titaniclabs/titanic-api/pkg/apperr"
	"github.com/titaniclabs/titanic-api/pkg/events"
	pkghash "github.com/titaniclabs/titanic-api/pkg/hash"
	"github.com/titaniclabs/titanic-api/pkg/logging"
	"github.com/titaniclabs/titanic-api/pkg/tokens"
	"github.com/titaniclabs/titanic-api/services/auth/internal/models"
	"github.com/titaniclabs/titanic-api/services/auth/internal/repo"
	"github.com/titaniclabs/titanic-api/services/auth/internal/transport"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type AuthService struct {
	Repo   *repo.Store
	Codec  *tokens.Codec
	Events *events.Producer
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (p *TokenPair) ExpiresIn() int64 {
	return int64(time.Until(p.AccessExp).Seconds())
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 50 {
		return apperr.ErrValidation.WithField("username")
	}
	if !usernameRe.MatchString(username) {
		return apperr.ErrValidation.WithField("username")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 || len(password) > 100 {
		return apperr.ErrValidation.WithField("password")
	}
	return nil
}

// issuePair mints an access/refresh pair for the user and registers the
// refresh session.
func (s *AuthService) issuePair(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessToken, accessExp, err := s.Codec.IssueAccess(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	refreshToken, jti, refreshExp, err := s.Codec.IssueRefresh(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	sess := models.RefreshSession{
		JTI:       jti,
		TokenHash: tokens.Sha256Hex(refreshToken),
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}
	if err := s.Repo.SaveSession(ctx, &sess); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, username, password, email string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username = strings.ToLower(strings.TrimSpace(username))
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	pwHash, err := pkghash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash password", "error", err)
		return nil, apperr.Wrap(err, apperr.CodeInternal, "cannot hash password")
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, apperr.ErrUsernameTaken) {
			l.Warn("register_failed", "status", 400, "reason", "username taken", "username", username)
			return nil, apperr.ErrUsernameTaken
		}
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	pair, err := s.issuePair(ctx, &user)
	if err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	if err := s.Events.Publish(ctx, user.Username, map[string]any{
		"type":     "user_registered",
		"username": user.Username,
		"role":     user.Role,
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("user_registered", "username", user.Username, "role", user.Role)
	return pair, nil
}

// Login returns the same error for unknown username, wrong password and
// inactive account.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			l.Warn("login_failed", "status", 401)
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}
	if !pkghash.CheckPassword(user.PasswordHash, password) || !user.IsActive {
		l.Warn("login_failed", "status", 401)
		return nil, apperr.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if err := s.Events.Publish(ctx, user.Username, map[string]any{
		"type":     "user_logged_in",
		"username": user.Username,
	}); err != nil {
		l.Warn("event_publish_failed", "error", err)
	}

	l.Info("login_successful")
	return pair, nil
}

// Refresh rotates the pair: the presented refresh token is revoked and a
// new pair issued, atomically against concurrent refreshes of the same
// token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Codec.Parse(refreshToken, tokens.TypeRefresh)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "error", err)
		return nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	user, err := s.Repo.FindByID(ctx, userID)
	if err != nil || !user.IsActive {
		l.Warn("refresh_failed", "status", 401, "reason", "user not found or inactive")
		return nil, apperr.ErrTokenInvalid
	}

	accessToken, accessExp, err := s.Codec.IssueAccess(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	newRefresh, jti, refreshExp, err := s.Codec.IssueRefresh(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	next := models.RefreshSession{
		JTI:       jti,
		TokenHash: tokens.Sha256Hex(newRefresh),
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}
	if err := s.Repo.RotateSession(ctx, claims.ID, &next); err != nil {
		if errors.Is(err, apperr.ErrTokenRevoked) {
			l.Warn("refresh_failed", "status", 401, "reason", "session revoked")
			return nil, apperr.ErrTokenRevoked
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	l.Info("tokens_rotated", "username", user.Username)
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// Logout revokes the presented refresh token. It only needs the token to be
// well formed, so a client whose access token already expired can still log
// out. Revoking an unknown token is a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if _, err := s.Codec.Parse(refreshToken, tokens.TypeRefresh); err != nil {
		l.Warn("logout_failed", "status", 401, "error", err)
		return err
	}

	if err := s.Repo.RevokeSessionByHash(ctx, tokens.Sha256Hex(refreshToken)); err != nil {
		l.Error("logout_failed", "status", 500, "error", err)
		return err
	}

	l.Info("logged_out")
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.Repo.FindByID(ctx, userID)
}

// UpdateMe applies a profile patch. Email is the only mutable field; a
// patch naming username, role or id is rejected.
func (s *AuthService) UpdateMe(ctx context.Context, userID uint, patch transport.UpdateMeRequest) (*models.User, error) {
	switch {
	case patch.Username != nil:
		return nil, apperr.ErrImmutableField.WithField("username")
	case patch.Role != nil:
		return nil, apperr.ErrImmutableField.WithField("role")
	case patch.ID != nil:
		return nil, apperr.ErrImmutableField.WithField("id")
	}

	if patch.Email == nil {
		return s.Repo.FindByID(ctx, userID)
	}
	return s.Repo.UpdateEmail(ctx, userID, *patch.Email)
}
