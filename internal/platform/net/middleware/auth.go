package middleware

import (
	"net/http"

	pnet "receiptjar/internal/platform/net"
)

// AuthPort authenticates a request and names the caller
type AuthPort interface {
	// Authenticate returns a caller label for the request or an error
	Authenticate(r *http.Request) (caller string, err error)
}

// Auth is a no-op when the port is nil, otherwise it gates every request
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			caller, err := p.Authenticate(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithCaller(r.Context(), caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
