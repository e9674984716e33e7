package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	clerkjwt "github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const ActorKey contextKey = "actor"

var ErrMissingSubject = errors.New("token has no subject")

// TokenVerifier checks a bearer token and returns the identity it was issued
// to. That identity is what gets written to last_updated_by.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// ClerkVerifier validates session tokens issued by Clerk.
type ClerkVerifier struct{}

func NewClerkVerifier(secretKey string) *ClerkVerifier {
	clerk.SetKey(secretKey)
	return &ClerkVerifier{}
}

func (ClerkVerifier) Verify(ctx context.Context, token string) (string, error) {
	claims, err := clerkjwt.Verify(ctx, &clerkjwt.VerifyParams{
		Token: token,
	})
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}

// HMACVerifier validates HS256/384/512 tokens signed with a shared secret.
// Tokens must carry exp and sub.
type HMACVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
			jwt.WithExpirationRequired(),
		),
	}
}

func (v *HMACVerifier) Verify(_ context.Context, token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := v.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}

// ChainVerifier accepts a token if any of its verifiers does.
type ChainVerifier []TokenVerifier

func (c ChainVerifier) Verify(ctx context.Context, token string) (string, error) {
	var errs []error
	for _, v := range c {
		subject, err := v.Verify(ctx, token)
		if err == nil {
			return subject, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", errors.New("no token verifiers configured")
	}
	return "", errors.Join(errs...)
}

// AdminAuthMiddleware requires a verified bearer token. When allowed is not
// empty the token subject must also be listed there.
func AdminAuthMiddleware(verifier TokenVerifier, allowed []string, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	allowSet := make(map[string]struct{}, len(allowed))
	for _, s := range allowed {
		if s = strings.TrimSpace(s); s != "" {
			allowSet[s] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondWithError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader || token == "" {
				respondWithError(w, http.StatusUnauthorized, "Invalid authorization format. Use 'Bearer <token>'")
				return
			}

			subject, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Infow("admin token rejected", "path", r.URL.Path, "err", err)
				respondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			if len(allowSet) > 0 {
				if _, ok := allowSet[subject]; !ok {
					logger.Warnw("admin access denied", "subject", subject, "path", r.URL.Path)
					respondWithError(w, http.StatusForbidden, "Admin access required")
					return
				}
			}

			ctx := context.WithValue(r.Context(), ActorKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetActor extracts the authenticated admin identity from context
func GetActor(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(ActorKey).(string)
	return actor, ok && actor != ""
}

// WithActor is used by tests and internal callers that authenticate elsewhere.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(fmt.Sprintf(`{"error": %q}`, message)))
}
