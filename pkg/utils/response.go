package utils

import (
	"encoding/json"
	"net/http"
)

// JSON writes payload with the given status. Payload maps should
// already carry the "success" envelope field.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// Success writes a {"success": true, ...fields} envelope.
func Success(w http.ResponseWriter, fields map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	JSON(w, http.StatusOK, body)
}

// Error writes the {"success": false, "error": msg} envelope.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}
