package dto

// LoginRequest contraseña de la aplicación.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse token de acceso al tablero.
type LoginResponse struct {
	Token string `json:"token"`
}
