package chi

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/kailas-cloud/caselookup/internal/metrics"
)

// publicPaths are served without a key so probes and scrapers need no secret.
// Case search, detail and summary always require one when keys are configured.
var publicPaths = map[string]struct{}{
	PathHealth:  {},
	PathMetrics: {},
}

const authRealm = `Bearer realm="caselookup"`

// apiKeySet holds digests of the configured keys. Lookups compare digests in
// constant time.
type apiKeySet [][sha256.Size]byte

func newAPIKeySet(keys []string) apiKeySet {
	set := make(apiKeySet, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			set = append(set, sha256.Sum256([]byte(k)))
		}
	}
	return set
}

func (s apiKeySet) contains(token string) bool {
	sum := sha256.Sum256([]byte(token))
	found := 0
	for i := range s {
		found |= subtle.ConstantTimeCompare(s[i][:], sum[:])
	}
	return found == 1
}

// BearerAuthMiddleware guards the case-lookup API with static API keys sent as
// "Authorization: Bearer <key>". With no keys configured it is a pass-through.
// Rejections are counted by reason.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := newAPIKeySet(apiKeys)

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			reason, msg := authorize(keys, r.Header.Get("Authorization"))
			if reason == "" {
				next.ServeHTTP(w, r)
				return
			}
			metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
			w.Header().Set("WWW-Authenticate", authRealm)
			writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, msg)
		})
	}
}

// authorize returns an empty reason for an accepted header.
func authorize(keys apiKeySet, header string) (reason, msg string) {
	if header == "" {
		return "missing", "missing authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "scheme", "authorization header must use Bearer scheme"
	}
	if !keys.contains(strings.TrimSpace(token)) {
		return "invalid_key", "invalid api key"
	}
	return "", ""
}
