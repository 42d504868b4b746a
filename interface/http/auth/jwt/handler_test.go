package jwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vantagebridge/controller/interface/http/auth"
)

func testAuthenticator(t *testing.T) Authenticator {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	assert.NoError(t, err)

	return Authenticator{
		SystemIdentifier: "vantagebridge",
		TTL:              time.Hour,
		KeyIdentifier:    "primary",
		PrivateKey:       key,
	}
}

func Test_Authenticator_SignAndVerify(t *testing.T) {
	t.Run("a signed token verifies and returns the subject", func(t *testing.T) {
		a := testAuthenticator(t)

		token, err := a.Sign("user")
		assert.NoError(t, err)

		uid, err := a.Verify(token)
		assert.NoError(t, err)
		assert.Equal(t, "user", uid)
	})

	t.Run("a token from another system is rejected", func(t *testing.T) {
		a := testAuthenticator(t)

		other := a
		other.SystemIdentifier = "elsewhere"

		token, err := other.Sign("user")
		assert.NoError(t, err)

		_, err = a.Verify(token)
		assert.Error(t, err)
	})

	t.Run("an expired token is rejected", func(t *testing.T) {
		a := testAuthenticator(t)

		defer func() { clock = time.Now }()
		clock = func() time.Time { return time.Now().Add(-2 * time.Hour) }

		token, err := a.Sign("user")
		assert.NoError(t, err)

		clock = time.Now

		_, err = a.Verify(token)
		assert.Error(t, err)
	})

	t.Run("a token with an unknown key identifier is rejected", func(t *testing.T) {
		a := testAuthenticator(t)

		other := a
		other.KeyIdentifier = "retired"

		token, err := other.Sign("user")
		assert.NoError(t, err)

		_, err = a.Verify(token)
		assert.Error(t, err)
	})
}

func Test_Authenticator_AuthenticationMiddleware(t *testing.T) {
	identityCapture := func(identity *string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := r.Context().Value(auth.UserIdentityContextKey).(string); ok {
				*identity = id
			}
		})
	}

	t.Run("a request with a valid bearer token reaches the handler with its identity", func(t *testing.T) {
		a := testAuthenticator(t)

		token, err := a.Sign("user")
		assert.NoError(t, err)

		var identity string

		req := httptest.NewRequest("GET", "/", nil)
		req.Header["Authentication"] = []string{"Bearer " + token}
		rr := httptest.NewRecorder()

		a.AuthenticationMiddleware(identityCapture(&identity)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user", identity)
	})

	t.Run("a request without credentials is challenged", func(t *testing.T) {
		a := testAuthenticator(t)

		var identity string

		req := httptest.NewRequest("GET", "/", nil)
		rr := httptest.NewRecorder()

		a.AuthenticationMiddleware(identityCapture(&identity)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Header().Get("WWW-Authenticate"), "Bearer realm=\"vantagebridge\"")
		assert.Empty(t, identity)
	})

	t.Run("a request with a malformed header is rejected", func(t *testing.T) {
		a := testAuthenticator(t)

		var identity string

		req := httptest.NewRequest("GET", "/", nil)
		req.Header["Authentication"] = []string{"Basic dXNlcjpwYXNz"}
		rr := httptest.NewRecorder()

		a.AuthenticationMiddleware(identityCapture(&identity)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, identity)
	})

	t.Run("a request with an invalid token is rejected", func(t *testing.T) {
		a := testAuthenticator(t)

		var identity string

		req := httptest.NewRequest("GET", "/", nil)
		req.Header["Authentication"] = []string{"Bearer not.a.token"}
		rr := httptest.NewRecorder()

		a.AuthenticationMiddleware(identityCapture(&identity)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, identity)
	})
}

func Test_Authenticator_AuthenticationType(t *testing.T) {
	t.Run("reports jwt", func(t *testing.T) {
		a := testAuthenticator(t)

		assert.Equal(t, auth.AuthenticatorType{Type: "jwt"}, a.AuthenticationType())
	})
}
