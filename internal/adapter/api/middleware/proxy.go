package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ProxyHeaders trusts the X-Forwarded-* headers set by the given number of
// reverse proxies in front of the server. With trusted <= 0 it does nothing.
//
// X-Forwarded-For rewrites RemoteAddr, X-Forwarded-Proto the URL scheme,
// X-Forwarded-Host the Host, and X-Forwarded-Prefix is prepended to absolute
// redirect locations.
func ProxyHeaders(trusted int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if trusted <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v, ok := forwarded(r.Header.Values("X-Forwarded-For"), trusted); ok {
				r.RemoteAddr = v
			}
			if v, ok := forwarded(r.Header.Values("X-Forwarded-Proto"), trusted); ok {
				r.URL.Scheme = v
			}
			if v, ok := forwarded(r.Header.Values("X-Forwarded-Host"), trusted); ok {
				r.Host = v
				r.URL.Host = v
			}
			if v, ok := forwarded(r.Header.Values("X-Forwarded-Prefix"), trusted); ok {
				if prefix := strings.TrimRight(v, "/"); prefix != "" {
					w = &prefixWriter{ResponseWriter: w, prefix: prefix}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// forwarded picks the value appended by the outermost trusted proxy. Values
// further left were supplied by the client and are ignored.
func forwarded(headers []string, trusted int) (string, bool) {
	var values []string
	for _, h := range headers {
		for _, v := range strings.Split(h, ",") {
			values = append(values, strings.TrimSpace(v))
		}
	}
	if len(values) < trusted {
		return "", false
	}
	v := values[len(values)-trusted]
	return v, v != ""
}

// prefixWriter mounts absolute redirects under the proxy's path prefix.
type prefixWriter struct {
	http.ResponseWriter
	prefix string
}

func (pw *prefixWriter) WriteHeader(code int) {
	if loc := pw.Header().Get("Location"); strings.HasPrefix(loc, "/") && !strings.HasPrefix(loc, "//") {
		pw.Header().Set("Location", pw.prefix+loc)
	}
	pw.ResponseWriter.WriteHeader(code)
}

func (pw *prefixWriter) Unwrap() http.ResponseWriter {
	return pw.ResponseWriter
}

// ClientIP returns the host part of RemoteAddr, which ProxyHeaders may have
// replaced by a bare address.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
