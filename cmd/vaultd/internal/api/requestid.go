package api

import (
	"net/http"

	"github.com/google/uuid"
)

// requestIDHeader is the response header carrying a per-request
// correlation ID — a real UUID rather than chi's short per-process
// counter, so IDs stay unique across a restart or a fleet of instances.
// The ID is set on the response only; log lines and Sentry events do not
// carry it.
const requestIDHeader = "X-Request-ID"

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(requestIDHeader, uuid.NewString())
		next.ServeHTTP(w, r)
	})
}
