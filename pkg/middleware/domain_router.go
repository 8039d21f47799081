package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// SlugResolver maps a verified custom domain to the page slug it serves.
type SlugResolver interface {
	ResolveSlug(ctx context.Context, host string) (string, error)
}

// DomainRouter serves custom domains from the same engine: on a verified
// host "/" becomes "/<slug>". The app domain and localhost pass through.
func DomainRouter(next http.Handler, appDomain string, resolver SlugResolver, log *zap.Logger) http.Handler {
	appDomain = strings.ToLower(appDomain)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := requestHost(r)
		if host == "" || host == appDomain || strings.Contains(host, "localhost") || net.ParseIP(host) != nil {
			next.ServeHTTP(w, r)
			return
		}

		slug, err := resolver.ResolveSlug(r.Context(), host)
		if err != nil {
			log.Error("custom domain lookup failed", zap.String("host", host), zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if slug == "" {
			writeJSONError(w, http.StatusNotFound, fmt.Sprintf("Domínio '%s' não configurado.", host))
			return
		}

		if r.URL.Path == "/" || r.URL.Path == "" {
			r = r.Clone(r.Context())
			r.URL.Path = "/" + slug
			r.URL.RawPath = ""
			log.Debug("custom domain routed", zap.String("host", host), zap.String("slug", slug))
		}
		next.ServeHTTP(w, r)
	})
}

func requestHost(r *http.Request) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(strings.ToLower(host), ".")
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "error",
		"code":    code,
		"message": message,
	})
}
