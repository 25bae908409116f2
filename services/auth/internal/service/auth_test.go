package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/titaniclabs/titanic-api/pkg/apperr"
	"github.com/titaniclabs/titanic-api/pkg/tokens"
	"github.com/titaniclabs/titanic-api/services/auth/internal/models"
	"github.com/titaniclabs/titanic-api/services/auth/internal/repo"
	"github.com/titaniclabs/titanic-api/services/auth/internal/transport"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()

	// a named shared in-memory db so every pooled connection sees the
	// same store
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store, err := repo.New(db)
	require.NoError(t, err)

	return &AuthService{
		Repo:  store,
		Codec: tokens.NewCodec([]byte("test-jwt-secret"), 0, 0),
	}
}

func TestRegister_FirstUserBecomesAdmin(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	pair, err := svc.Register(ctx, "boss", "secret123", "")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.Codec.Parse(pair.AccessToken, tokens.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	pair2, err := svc.Register(ctx, "john", "secret123", "john@example.com")
	require.NoError(t, err)

	claims2, err := svc.Codec.Parse(pair2.AccessToken, tokens.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, claims2.Role)
}

func TestRegister_ConcurrentSingleAdmin(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := svc.Register(ctx, fmt.Sprintf("user-%02d", i), "secret123", "")
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	var admins int64
	require.NoError(t, svc.Repo.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error)
	assert.Equal(t, int64(1), admins)

	var total int64
	require.NoError(t, svc.Repo.DB.Model(&models.User{}).Count(&total).Error)
	assert.Equal(t, int64(n), total)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "jack", "secret123", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "jack", "another456", "")
	assert.ErrorIs(t, err, apperr.ErrUsernameTaken)

	// usernames are lowercased before the uniqueness check
	_, err = svc.Register(ctx, "JACK", "another456", "")
	assert.ErrorIs(t, err, apperr.ErrUsernameTaken)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		field    string
	}{
		{name: "short username", username: "ab", password: "secret123", field: "username"},
		{name: "long username", username: string(make([]byte, 51)), password: "secret123", field: "username"},
		{name: "bad charset", username: "jack dawson", password: "secret123", field: "username"},
		{name: "short password", username: "jack", password: "12345", field: "password"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)

			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.field, ae.Field)
		})
	}
}

func TestLogin_SameErrorForUnknownUserAndBadPassword(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "jack", "secret123", "")
	require.NoError(t, err)

	_, errUnknown := svc.Login(ctx, "nobody", "secret123")
	_, errBadPass := svc.Login(ctx, "jack", "wrongpass")

	assert.ErrorIs(t, errUnknown, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, errBadPass, apperr.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errBadPass.Error())
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "jack", "secret123", "")
	require.NoError(t, err)
	require.NoError(t, svc.Repo.DB.Model(&models.User{}).
		Where("username = ?", "jack").
		Update("is_active", false).Error)

	_, err = svc.Login(ctx, "jack", "secret123")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestRefresh_RotatesAndInvalidatesOldToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	pair, err := svc.Register(ctx, "jack", "secret123", "")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// the consumed token cannot be presented again
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrTokenRevoked)

	// the replacement still works
	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	pair, err := svc.Register(ctx, "jack", "secret123", "")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrWrongTokenType)
}

func TestRefresh_GarbageToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	_, err := svc.Refresh(context.Background(), "not-a-valid-jwt")
	assert.ErrorIs(t, err, apperr.ErrTokenInvalid)
}

func TestLogout_ThenRefreshFails(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	pair, err := svc.Register(ctx, "jack", "secret123", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrTokenRevoked)

	// logging out twice is a no-op
	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
}

func TestLogout_MalformedToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	err := svc.Logout(context.Background(), "garbage")
	assert.ErrorIs(t, err, apperr.ErrTokenInvalid)
}

func TestUpdateMe_OnlyEmailIsMutable(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "jack", "secret123", "old@example.com")
	require.NoError(t, err)
	user, err := svc.Repo.FindByUsername(ctx, "jack")
	require.NoError(t, err)

	email := "new@example.com"
	updated, err := svc.UpdateMe(ctx, user.ID, transport.UpdateMeRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, user.Username, updated.Username)

	username := "rose"
	_, err = svc.UpdateMe(ctx, user.ID, transport.UpdateMeRequest{Username: &username})
	assert.ErrorIs(t, err, apperr.ErrImmutableField)

	role := models.RoleAdmin
	_, err = svc.UpdateMe(ctx, user.ID, transport.UpdateMeRequest{Role: &role})
	assert.ErrorIs(t, err, apperr.ErrImmutableField)

	// empty patch returns the current profile untouched
	current, err := svc.UpdateMe(ctx, user.ID, transport.UpdateMeRequest{})
	require.NoError(t, err)
	assert.Equal(t, email, current.Email)
}
