package middleware

import (
	"crypto/hmac"
	"net/http"

	"github.com/youcefmohamedelamine/telegram-bot/pkg/logger"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WithWebhookSecret rejects webhook deliveries that do not carry the secret
// token registered with setWebhook. Comparison is constant-time. An empty
// configured secret disables the check (local development without a public
// URL).
func WithWebhookSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" {
				provided := r.Header.Get(secretTokenHeader)
				if !hmac.Equal([]byte(provided), []byte(secret)) {
					logger.Log.Warn("webhook delivery with missing or wrong secret token")
					http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
