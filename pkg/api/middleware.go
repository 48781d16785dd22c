package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// apiKeyMiddleware authenticates requests by the X-API-Key header, comparing
// in constant time so response timing leaks nothing about the key. Every
// presented key is counted on metrics (nil disables counting); requests with
// no key at all are rejected without touching the auth counters.
func apiKeyMiddleware(expectedKey string, metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get("X-API-Key")
			if presented == "" {
				sendError(w, "Missing X-API-Key header", http.StatusUnauthorized)
				return
			}
			ok := subtle.ConstantTimeCompare([]byte(presented), []byte(expectedKey)) == 1
			if metrics != nil {
				metrics.RecordAuthRequest(ok)
			}
			if !ok {
				sendError(w, "Invalid API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeEnvelope serializes one APIResponse. Encoding only fails on an
// unmarshalable Data value, which the handlers never produce.
func writeEnvelope(w http.ResponseWriter, statusCode int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func sendSuccess(w http.ResponseWriter, data interface{}) {
	writeEnvelope(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

func sendError(w http.ResponseWriter, message string, statusCode int) {
	writeEnvelope(w, statusCode, APIResponse{Success: false, Error: message})
}
