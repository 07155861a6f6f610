package httpmw

import (
	"context"
	"net/http"
	"strings"

	"github.com/footysocial/chat-service/internal/domain"
	"github.com/footysocial/chat-service/internal/identity"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// Auth requires a Bearer token and resolves it through the verifier. The
// websocket routes carry their credential in the query string instead and do
// not pass through here.
func Auth(verifier identity.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || len(auth) <= 7 {
				http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
				return
			}
			ident, err := verifier.Verify(r.Context(), strings.TrimSpace(auth[7:]))
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyUser, ident.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserFromCtx(ctx context.Context) *domain.User {
	if u, ok := ctx.Value(ctxKeyUser).(*domain.User); ok {
		return u
	}
	return nil
}
