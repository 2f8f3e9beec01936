package domain

import (
	"encoding/base64"
	"fmt"
	"net/http"
)

// MaxImageBytes es el limite de payload de imagen (5 MiB), igual al
// limite desplegado en el cliente.
const MaxImageBytes = 5 * 1024 * 1024

// EncodeImage valida el tamano del payload y lo codifica como data URI.
// max <= 0 usa MaxImageBytes. El contentType se detecta si viene vacio.
func EncodeImage(data []byte, contentType string, max int64) (string, error) {
	if max <= 0 {
		max = MaxImageBytes
	}
	if int64(len(data)) > max {
		return "", fmt.Errorf("%w: %d bytes over limit of %d", ErrPayloadTooLarge, len(data), max)
	}
	if len(data) == 0 {
		return "", NewValidationError("image")
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
}
