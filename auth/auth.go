package auth

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/SaiNageswarS/go-ajax-boot/ajax"
	"github.com/SaiNageswarS/go-ajax-boot/logger"
	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
)

type Claims string

var USER_ID_CLAIM = Claims("userId")
var TENANT_CLAIM = Claims("tenantId")
var USER_TYPE_CLAIM = Claims("userType")

// AccessSecretEnv names the environment variable holding the HMAC signing key.
const AccessSecretEnv = "ACCESS_SECRET"

var errMalformedHeader = errors.New("missing or malformed token")

// NoAuthResponder builds the envelope sent to unauthenticated AJAX callers.
// *ajax.Responder implements it.
type NoAuthResponder interface {
	NoAuth() ajax.Envelope
}

// RequireToken rejects requests without a valid bearer token by answering
// with the responder's NoAuth redirect envelope (HTTP 200), so XHR clients
// can follow it to the authorization URL.
func RequireToken(responder NoAuthResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := authenticate(r)
			if err != nil {
				logger.Info("Unauthenticated ajax request", zap.String("path", r.URL.Path), zap.Error(err))
				if err := ajax.WriteJSON(w, responder.NoAuth()); err != nil {
					logger.Error("Error writing no-auth response", zap.Error(err))
				}
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// VerifyTokenHttpMiddleware answers 401 to requests without a valid bearer
// token. Use it for non-AJAX endpoints.
func VerifyTokenHttpMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := authenticate(r)
		if errors.Is(err, errMalformedHeader) {
			logger.Error("Bad authorization string")
			http.Error(w, errMalformedHeader.Error(), http.StatusUnauthorized)
			return
		}
		if err != nil {
			logger.Error("Error decrypting token", zap.Error(err))
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate returns r's context carrying the token claims.
func authenticate(r *http.Request) (context.Context, error) {
	splits := strings.SplitN(r.Header.Get("Authorization"), " ", 2)

	// Check for Bearer scheme (case-insensitive)
	if len(splits) < 2 || !strings.EqualFold(splits[0], "bearer") || splits[1] == "" {
		return nil, errMalformedHeader
	}

	userId, tenant, userType, err := decryptToken(splits[1])
	if err != nil {
		return nil, err
	}

	ctx := context.WithValue(r.Context(), USER_ID_CLAIM, userId)
	ctx = context.WithValue(ctx, TENANT_CLAIM, tenant)
	ctx = context.WithValue(ctx, USER_TYPE_CLAIM, userType)
	return ctx, nil
}

func GetToken(tenant, userId, userType string) (string, error) {
	atClaims := jwt.StandardClaims{}
	atClaims.Id = userId
	atClaims.Audience = tenant
	atClaims.Subject = userType

	accessSecret := os.Getenv(AccessSecretEnv)
	if accessSecret == "" {
		return "", errors.New(AccessSecretEnv + " is not set in environment")
	}

	at := jwt.NewWithClaims(jwt.SigningMethodHS256, atClaims)
	token, err := at.SignedString([]byte(accessSecret))

	if err != nil {
		logger.Error("Error signing token", zap.Error(err))
		return "", err
	}
	return token, nil
}

func GetUserIdAndTenant(ctx context.Context) (string, string) {
	userIdClaim := ctx.Value(USER_ID_CLAIM)
	tenantClaim := ctx.Value(TENANT_CLAIM)

	var userId, tenant string

	if userIdClaimStr, ok := userIdClaim.(string); ok {
		userId = userIdClaimStr
	}

	if tenantClaimStr, ok := tenantClaim.(string); ok {
		tenant = tenantClaimStr
	}

	return userId, tenant
}

func GetUserType(ctx context.Context) string {
	userTypeClaim := ctx.Value(USER_TYPE_CLAIM)
	if userTypeClaimStr, ok := userTypeClaim.(string); ok {
		return userTypeClaimStr
	}

	return ""
}

// returns userId, tenant, userType
var decryptToken = func(token string) (string, string, string, error) {
	accessSecret := os.Getenv(AccessSecretEnv)
	if accessSecret == "" {
		return "", "", "", errors.New(AccessSecretEnv + " is not set in environment")
	}

	parsedToken, err := jwt.ParseWithClaims(
		token,
		&jwt.StandardClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(accessSecret), nil
		})

	if err != nil {
		return "", "", "", err
	}

	claims, ok := parsedToken.Claims.(*jwt.StandardClaims)

	if !ok || !parsedToken.Valid {
		return "", "", "", errors.New("failed reading claims")
	}

	return claims.Id, claims.Audience, claims.Subject, nil
}
