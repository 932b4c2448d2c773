// ABOUTME: JSON response envelope and error codes for the widget API.
// ABOUTME: Every endpoint answers with the same success/error shape.

package api

import (
	"encoding/json"
	"net/http"
)

// Error codes returned in the envelope. These are part of the public API;
// the widget frontend switches on them.
const (
	CodeMissingParams     = "MISSING_PARAMS"
	CodeInvalidConfig     = "INVALID_CONFIG"
	CodeInvalidAPIKey     = "INVALID_API_KEY"
	CodeInvalidDatabaseID = "INVALID_DATABASE_ID"
	CodeInvalidDate       = "INVALID_DATE"
	CodeConnectionFailed  = "CONNECTION_FAILED"
	CodeInvalidSchema     = "INVALID_SCHEMA"
	CodeAnalysisFailed    = "ANALYSIS_FAILED"
	CodeFetchFailed       = "FETCH_FAILED"
	CodeRemoteError       = "NOTION_API_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
)

// Response is the envelope returned by every API endpoint.
type Response struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ResponseError `json:"error,omitempty"`
}

// ResponseError carries a machine-readable code plus human-readable context.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeErrorDetails(w, status, code, message, "")
}

func writeErrorDetails(w http.ResponseWriter, status int, code, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{
		Success: false,
		Error:   &ResponseError{Code: code, Message: message, Details: details},
	})
}

// CORS allows cross-origin use; the widget is embedded from arbitrary pages.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
