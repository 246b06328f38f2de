package api

import (
	"encoding/json"
	"net/http"
)

// User-facing messages. The UI speaks Indonesian; keep the texts it expects.
const (
	msgQuotaExceeded    = "OpenAI quota terlampaui. Silakan cek penggunaan API Anda atau gunakan model lain."
	msgInternalError    = "Internal server error"
	msgStorageFailed    = "Failed to store in database"
	msgMissingFields    = "File and database are required"
	msgUnsupportedType  = "Unsupported file type"
	msgReservedDatabase = `"all" is a reserved database name`
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
