package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mohagy/roulette-sub003/internal/config"
	"github.com/mohagy/roulette-sub003/internal/models"
	"github.com/mohagy/roulette-sub003/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) (*AuthServiceImpl, *memory.OperatorStore) {
	t.Helper()
	operators := memory.NewOperatorStore()
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpiresIn: 3600},
	}
	return NewAuthService(operators, cfg), operators
}

func seedOperator(t *testing.T, operators *memory.OperatorStore, username, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, operators.Create(context.Background(), &models.Operator{
		Username: username,
		Password: string(hash),
		Role:     role,
	}))
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, operators := newTestAuthService(t)
	seedOperator(t, operators, "cashier1", "hunter2", "operator")

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Username: "cashier1",
		Password: "hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "cashier1", resp.Username)
	assert.Equal(t, "operator", resp.Role)

	token, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "cashier1", claims["sub"])
	assert.Equal(t, "operator", claims["role"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, operators := newTestAuthService(t)
	seedOperator(t, operators, "cashier1", "hunter2", "operator")

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Username: "cashier1",
		Password: "wrong",
	})
	assert.Error(t, err)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Username: "ghost",
		Password: "whatever",
	})
	assert.Error(t, err)
}
