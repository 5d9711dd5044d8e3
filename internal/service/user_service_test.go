package service

import (
	"context"
	"testing"

	"removal-backend/internal/middleware"
	"removal-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := seedUser(model.RoleEmployee)
	user.Password = string(hash)

	t.Run("issues a token the middleware can verify and records the login", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		auditRepo := new(mockAuditRepo)
		userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)
		auditRepo.On("Log", ctx, mock.MatchedBy(func(a *model.AuditLog) bool {
			return a.Action == model.ActionLogin && a.UserID != nil && *a.UserID == user.ID
		})).Return(nil).Once()

		svc := NewUserService(userRepo, auditRepo)

		res, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), res.User.ID)

		token, err := jwt.Parse(res.Token, func(t *jwt.Token) (interface{}, error) {
			return middleware.GetJWTSecret(), nil
		})
		require.NoError(t, err)
		require.True(t, token.Valid)
		claims, ok := token.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.Equal(t, user.ID.String(), claims["sub"])
		assert.Equal(t, user.Role, claims["role"])
		auditRepo.AssertExpectations(t)
	})

	t.Run("wrong password writes no audit row", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		auditRepo := new(mockAuditRepo)
		userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)

		svc := NewUserService(userRepo, auditRepo)

		_, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "nope"})
		assert.ErrorContains(t, err, "invalid email or password")
		auditRepo.AssertNotCalled(t, "Log", mock.Anything, mock.Anything)
	})

	t.Run("unknown email", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		userRepo.On("GetByEmail", ctx, "ghost@z.com").Return(nil, gorm.ErrRecordNotFound)

		svc := NewUserService(userRepo, new(mockAuditRepo))

		_, err := svc.Login(ctx, LoginRequest{Email: "ghost@z.com", Password: "whatever"})
		assert.ErrorContains(t, err, "invalid email or password")
	})
}
