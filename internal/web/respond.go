package web

import (
	"net/http"

	"github.com/goccy/go-json"
)

// statusMessages are the user-facing messages shown for each error status.
var statusMessages = map[int]string{
	http.StatusBadRequest:          "Eh, your request got problem...Anyway do not ping the developer she is lazy",
	http.StatusNotFound:            "what you looking bro?",
	http.StatusTooManyRequests:     "Plzzzz rileks T_T",
	http.StatusInternalServerError: "System down ig, dev skill issue boleh cuba next time la (dont)",
}

const defaultStatusMessage = "whopsie.. i guess its time to stop dawg"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func statusMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return defaultStatusMessage
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errMsg string, details map[string]any) {
	writeJSON(w, status, ErrorResponse{
		Success: false,
		Error:   errMsg,
		Message: statusMessage(status),
		Details: details,
	})
}
