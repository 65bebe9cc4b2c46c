package dto

import "strings"

// normalizeEmail recorta espacios y pasa a minúsculas.
func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}
