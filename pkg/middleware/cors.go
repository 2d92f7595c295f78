package middleware

import (
	"net/http"
	"strings"
)

const (
	corsMethods = "GET, POST, PUT, OPTIONS"
	corsHeaders = "Authorization, Content-Type"
)

// CORS answers preflight requests and stamps allow headers for listed origins.
// An empty list disables the middleware; "*" allows any origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allow, ok := matchOrigin(origin, origins)
			if origin == "" || !ok {
				next.ServeHTTP(w, r)
				return
			}

			headers := w.Header()
			headers.Set("Access-Control-Allow-Origin", allow)
			headers.Set("Access-Control-Allow-Methods", corsMethods)
			headers.Set("Access-Control-Allow-Headers", corsHeaders)
			headers.Add("Vary", "Origin")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func matchOrigin(origin string, allowed []string) (string, bool) {
	for _, candidate := range allowed {
		if candidate == "*" {
			return "*", true
		}
		if strings.EqualFold(candidate, origin) {
			return origin, true
		}
	}
	return "", false
}
