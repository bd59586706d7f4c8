package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Botiquin-api/internal/application/auth"
	"github.com/jhoicas/Botiquin-api/internal/domain"
)

var testJWT = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "botiquin-test"}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_PasswordCorrectaEmiteToken(t *testing.T) {
	uc := auth.NewUseCase(hashOf(t, "botiquin123"), testJWT)

	tok, err := uc.Login(context.Background(), "botiquin123")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.False(t, uc.Open())
}

func TestLogin_PasswordIncorrectaRechaza(t *testing.T) {
	uc := auth.NewUseCase(hashOf(t, "botiquin123"), testJWT)

	_, err := uc.Login(context.Background(), "otra-cosa")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// Sin hash configurado la aplicación queda abierta pero el login sigue
// emitiendo token para clientes que siempre mandan Authorization.
func TestLogin_SinHashConfiguradoEmiteTokenIgualmente(t *testing.T) {
	uc := auth.NewUseCase("", testJWT)

	assert.True(t, uc.Open())
	tok, err := uc.Login(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
}
