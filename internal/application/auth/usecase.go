// Package auth implementa el acceso al tablero: una contraseña de aplicación
// (hash bcrypt en configuración) que al validar emite un JWT para las rutas
// que mutan stock. Sin hash configurado el acceso queda abierto.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"github.com/jhoicas/Botiquin-api/internal/domain"
	pkgjwt "github.com/jhoicas/Botiquin-api/pkg/jwt"
)

// JWTConfig parámetros de emisión del token.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase valida la contraseña de la aplicación y emite tokens.
type UseCase struct {
	passwordHash string // hash bcrypt; vacío = acceso abierto
	jwtCfg       JWTConfig
}

// NewUseCase construye el caso de uso de autenticación.
func NewUseCase(passwordHash string, jwtCfg JWTConfig) *UseCase {
	return &UseCase{passwordHash: passwordHash, jwtCfg: jwtCfg}
}

// Open indica si la aplicación corre sin contraseña configurada.
func (uc *UseCase) Open() bool { return uc.passwordHash == "" }

// Login compara la contraseña contra el hash bcrypt y devuelve un JWT firmado.
// Devuelve ErrUnauthorized si la contraseña no coincide.
func (uc *UseCase) Login(_ context.Context, password string) (string, error) {
	if uc.passwordHash == "" {
		// Sin contraseña configurada: emitir token igualmente para clientes
		// que siempre mandan Authorization.
		return pkgjwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.passwordHash), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}
	return pkgjwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}
