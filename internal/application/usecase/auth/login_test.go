package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/spotme/internal/domain/user"
	"github.com/khoahotran/spotme/pkg/apperror"
	"github.com/khoahotran/spotme/pkg/auth"
	"github.com/khoahotran/spotme/pkg/logger"
)

type memUsers map[string]*user.User

func (m memUsers) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if u, ok := m[email]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", email)
}

func newLogin(t *testing.T) (*LoginUseCase, *auth.JWTService, *user.User) {
	t.Helper()
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	u := &user.User{ID: uuid.New(), Email: "joshua@example.com", Username: "joshua", PasswordHash: hash}
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	return NewLoginUseCase(memUsers{u.Email: u}, jwtSvc, logger.NewNopLogger()), jwtSvc, u
}

func TestLogin_Success(t *testing.T) {
	uc, jwtSvc, u := newLogin(t)

	out, err := uc.Execute(context.Background(), LoginInput{Email: u.Email, Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "joshua", out.Username)

	claims, err := jwtSvc.ValidateToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.OwnerID)
	assert.Equal(t, "joshua", claims.Username)
}

func TestLogin_Rejections(t *testing.T) {
	uc, _, u := newLogin(t)

	_, err := uc.Execute(context.Background(), LoginInput{Email: u.Email, Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = uc.Execute(context.Background(), LoginInput{Email: "nobody@example.com", Password: "s3cret"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
