package routegroups

import "net/http"

type Guards struct {
	Session func(http.HandlerFunc) http.HandlerFunc
}

// WithSession wraps h with the session binding; without one configured h runs as is.
func (g Guards) WithSession(h http.HandlerFunc) http.HandlerFunc {
	if g.Session == nil {
		return h
	}
	return g.Session(h)
}
