package dto

// ErrorResponse cuerpo de error HTTP. Field detalla qué campo corregir
// cuando el rechazo es de validación.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
