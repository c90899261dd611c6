package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/kataras/iris/v12"
	irishttptest "github.com/kataras/iris/v12/httptest"
	"github.com/stretchr/testify/require"
)

func TestJWTVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwks := map[string]interface{}{
		"keys": []map[string]interface{}{{
			"kty": "RSA",
			"kid": "test-key",
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/jwks.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(jwks)
	}))
	defer srv.Close()

	issuer := srv.URL + "/"
	audience := "http://localhost:8000"

	verifier, err := NewJWTVerifier(srv.URL, audience, time.Hour, srv.Client())
	require.NoError(t, err)
	defer verifier.Close()

	app := iris.New()
	app.Get("/gated", verifier.Verify, func(ctx iris.Context) {
		ctx.JSON(iris.Map{"subject": ctx.Values().GetString("authSubject")})
	})
	e := irishttptest.New(t, app)

	sign := func(aud, iss string) string {
		claims := jwt.MapClaims{
			"sub": "auth0|123",
			"aud": aud,
			"iss": iss,
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
		token.Header["kid"] = "test-key"
		signed, signErr := token.SignedString(key)
		require.NoError(t, signErr)
		return signed
	}

	// valid token passes and exposes the subject
	body := e.GET("/gated").
		WithHeader("Authorization", "Bearer "+sign(audience, issuer)).
		Expect().Status(irishttptest.StatusOK).
		JSON().Object().Raw()
	require.Equal(t, "auth0|123", body["subject"])

	// missing token
	e.GET("/gated").Expect().Status(irishttptest.StatusUnauthorized)

	// malformed token
	e.GET("/gated").
		WithHeader("Authorization", "Bearer not.a.jwt").
		Expect().Status(irishttptest.StatusUnauthorized)

	// wrong audience
	e.GET("/gated").
		WithHeader("Authorization", "Bearer "+sign("https://other.example", issuer)).
		Expect().Status(irishttptest.StatusUnauthorized)

	// wrong issuer
	e.GET("/gated").
		WithHeader("Authorization", "Bearer "+sign(audience, "https://evil.example/")).
		Expect().Status(irishttptest.StatusUnauthorized)
}

func TestJWTVerifierRejectsHS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwks := map[string]interface{}{
		"keys": []map[string]interface{}{{
			"kty": "RSA",
			"kid": "test-key",
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(jwks)
	}))
	defer srv.Close()

	verifier, err := NewJWTVerifier(srv.URL, "aud", time.Hour, srv.Client())
	require.NoError(t, err)
	defer verifier.Close()

	app := iris.New()
	app.Get("/gated", verifier.Verify, func(ctx iris.Context) {
		ctx.JSON(iris.Map{"ok": true})
	})
	e := irishttptest.New(t, app)

	// symmetric-signed token must not pass the RS256-only gate
	hsToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "attacker",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	hsToken.Header["kid"] = "test-key"
	signed, signErr := hsToken.SignedString([]byte("secret"))
	require.NoError(t, signErr)

	e.GET("/gated").
		WithHeader("Authorization", "Bearer "+signed).
		Expect().Status(irishttptest.StatusUnauthorized)
}
