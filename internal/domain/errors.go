package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIndexOutOfRange indica un indice fuera de [0, len).
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrMinimumSize indica que la secuencia ya esta en su tamano minimo.
	ErrMinimumSize = errors.New("sequence at minimum size")
	// ErrPayloadTooLarge indica una imagen por encima del limite configurado.
	ErrPayloadTooLarge = errors.New("image payload too large")
	// ErrDuplicateID indica una colision de identificadores en el workspace.
	ErrDuplicateID = errors.New("duplicate identifier")
	// ErrNotFound indica que la entidad no existe en el workspace.
	ErrNotFound = errors.New("entity not found")
	// ErrUnknownField indica un nombre de campo fuera del conjunto permitido.
	ErrUnknownField = errors.New("unknown field")
)

// ValidationError reporta los campos que impiden confirmar un draft.
type ValidationError struct {
	Fields []string
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// IsValidation reporta si err es un error de validacion de draft.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
