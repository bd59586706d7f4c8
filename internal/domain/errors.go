package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrDuplicate      = errors.New("recurso duplicado")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrAlreadyApplied = errors.New("la deducción FEFO ya fue aplicada para esa fecha")
	ErrNegativeStock  = errors.New("el stock no puede quedar negativo")
)
