package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SaiNageswarS/go-ajax-boot/ajax"
	"github.com/SaiNageswarS/go-ajax-boot/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test generate token and verify same token success test.
func TestGenerateAndVerifyToken(t *testing.T) {
	t.Setenv(AccessSecretEnv, "CONST-SECRET")

	token, err := GetToken("testTenant", "rick", "non-admin")
	require.NoError(t, err)

	userId, tenant, userType, err := decryptToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "rick", userId)
	assert.Equal(t, "testTenant", tenant)
	assert.Equal(t, "non-admin", userType)
}

func TestGenerateAccessSecretNotSet(t *testing.T) {
	t.Setenv(AccessSecretEnv, "")

	token, err := GetToken("testTenant", "rick", "non-admin")
	assert.Error(t, err)
	assert.Empty(t, token)
}

func TestFailTokenTampered(t *testing.T) {
	t.Setenv(AccessSecretEnv, "CONST-SECRET")

	token, _ := GetToken("testTenant", "rick", "non-admin")
	token = token + "tampered"

	_, _, _, err := decryptToken(token)
	assert.Error(t, err)
}

func TestFailAccessSecretChanged(t *testing.T) {
	t.Setenv(AccessSecretEnv, "FIRST-SECRET")
	token, _ := GetToken("testTenant", "rick", "non-admin")

	t.Setenv(AccessSecretEnv, "SECOND-SECRET")
	_, _, _, err := decryptToken(token)
	assert.Error(t, err)
}

func TestReadClaimsFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), USER_ID_CLAIM, "rick")
	ctx = context.WithValue(ctx, TENANT_CLAIM, "testTenant")
	ctx = context.WithValue(ctx, USER_TYPE_CLAIM, "non-admin")

	userId, tenant := GetUserIdAndTenant(ctx)

	assert.Equal(t, "rick", userId)
	assert.Equal(t, "testTenant", tenant)
	assert.Equal(t, "non-admin", GetUserType(ctx))
}

func stubDecrypt(t *testing.T, fn func(string) (string, string, string, error)) {
	t.Helper()
	restore := decryptToken
	decryptToken = fn
	t.Cleanup(func() { decryptToken = restore })
}

func claimsHandler(got *[]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId, tenant := GetUserIdAndTenant(r.Context())
		*got = []string{userId, tenant, GetUserType(r.Context())}
		w.WriteHeader(http.StatusNoContent)
	}
}

func TestRequireToken_MissingToken(t *testing.T) {
	responder := ajax.NewResponder(testutil.NewMapTranslator(nil), ajax.WithAuthorizationURL("/login"))
	var got []string
	h := RequireToken(responder)(claimsHandler(&got))

	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer "} {
		req := httptest.NewRequest(http.MethodPost, "/feedback", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, header)
		assert.JSONEq(t, `{"redirect":"/login"}`, rec.Body.String(), header)
	}
	assert.Nil(t, got)
}

func TestRequireToken_InvalidToken(t *testing.T) {
	stubDecrypt(t, func(string) (string, string, string, error) {
		return "", "", "", errors.New("bad-token")
	})

	var got []string
	h := RequireToken(ajax.NewResponder(testutil.NewMapTranslator(nil)))(claimsHandler(&got))

	req := httptest.NewRequest(http.MethodPost, "/feedback", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.JSONEq(t, `{"redirect":"/"}`, rec.Body.String())
	assert.Nil(t, got)
}

func TestRequireToken_ValidToken(t *testing.T) {
	t.Setenv(AccessSecretEnv, "CONST-SECRET")
	token, err := GetToken("acme", "u123", "admin")
	require.NoError(t, err)

	var got []string
	h := RequireToken(ajax.NewResponder(testutil.NewMapTranslator(nil)))(claimsHandler(&got))

	req := httptest.NewRequest(http.MethodPost, "/feedback", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"u123", "acme", "admin"}, got)
}

func TestVerifyTokenHttpMiddleware(t *testing.T) {
	stubDecrypt(t, func(token string) (string, string, string, error) {
		if token == "good" {
			return "u123", "acme", "admin", nil
		}
		return "", "", "", errors.New("bad-token")
	})

	var got []string
	h := VerifyTokenHttpMiddleware(claimsHandler(&got))

	tests := []struct {
		header string
		code   int
	}{
		{"", http.StatusUnauthorized},
		{"Token good", http.StatusUnauthorized},
		{"Bearer bad", http.StatusUnauthorized},
		{"Bearer good", http.StatusNoContent},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", tc.header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tc.code, rec.Code, tc.header)
	}
	assert.Equal(t, []string{"u123", "acme", "admin"}, got)
}
