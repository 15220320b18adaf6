package http

import (
	"encoding/json"
	"net/http"
)

// Envelope is the standard success response shape:
// {"status": "success", "data": {...}}.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// WriteJSON writes a success envelope with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	writeEnvelope(w, statusCode, Envelope{Status: "success", Data: data})
}

// WriteMessage writes a success envelope carrying only a message.
func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	writeEnvelope(w, statusCode, Envelope{Status: "success", Message: message})
}

// WriteToken writes a success envelope carrying a session token and,
// optionally, the authenticated user.
func WriteToken(w http.ResponseWriter, statusCode int, token string, data any) {
	writeEnvelope(w, statusCode, Envelope{Status: "success", Token: token, Data: data})
}

func writeEnvelope(w http.ResponseWriter, statusCode int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// Encoding errors past this point cannot be reported to the client
	_ = json.NewEncoder(w).Encode(env)
}
