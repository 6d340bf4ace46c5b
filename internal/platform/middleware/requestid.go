package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Bahjat/site-scorecard/internal/platform/requestid"
)

// RequestID is middleware that assigns a unique request ID to each request
// and echoes it in the response. A well-formed incoming X-Request-ID is
// reused; anything else is replaced by a new UUID v4.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestid.Header)
		if !requestid.Valid(id) {
			id = uuid.New().String()
		}

		w.Header().Set(requestid.Header, id)
		ctx := requestid.NewContext(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
