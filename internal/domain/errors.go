package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrBOMCycle          = errors.New("ciclo en la lista de materiales")
	ErrBOMTooDeep        = errors.New("lista de materiales demasiado profunda")
)

// UnresolvedConversionError indica que no existe arista directa ni inversa entre dos unidades.
// Incluye ambos símbolos para que el caller pueda reportar qué conversión falta registrar.
type UnresolvedConversionError struct {
	From string
	To   string
}

func (e *UnresolvedConversionError) Error() string {
	return fmt.Sprintf("conversión de unidad no registrada: %s -> %s", e.From, e.To)
}
