package cors

import (
	"net/http"
	"net/url"
	"strings"
)

// Matcher decides whether a browser origin may call the API. "*" allows any
// origin, and localhost/127.0.0.1 on any port is accepted for development.
type Matcher struct {
	origins   map[string]struct{}
	anyOrigin bool
}

func NewMatcher(allowedOrigins []string) *Matcher {
	m := &Matcher{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			m.anyOrigin = true
		default:
			m.origins[o] = struct{}{}
		}
	}
	return m
}

func (m *Matcher) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	if _, ok := m.origins[origin]; ok || m.anyOrigin {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1"
}

// CheckOrigin adapts the matcher to websocket upgraders. Requests without an
// Origin header are not from browsers and pass.
func (m *Matcher) CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || m.Allowed(origin)
}

func Cors(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	m := NewMatcher(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if m.Allowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				if allowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
