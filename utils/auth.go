package utils

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/kataras/iris/v12"
)

// JWTVerifier gates routes behind a bearer token issued by a third-party
// identity provider. Tokens must be RS256-signed against the issuer's JWKS
// and carry the expected issuer and audience claims.
type JWTVerifier struct {
	jwks     *keyfunc.JWKS
	issuer   string
	audience string
}

// NewJWTVerifier fetches the issuer's JWKS and keeps it refreshed in the
// background. The caller supplies the HTTP client so the outbound timeout
// is configured in exactly one place.
func NewJWTVerifier(issuerBaseURL, audience string, refreshInterval time.Duration, client *http.Client) (*JWTVerifier, error) {
	issuer := strings.TrimSuffix(issuerBaseURL, "/") + "/"
	jwksURL := issuer + ".well-known/jwks.json"

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Client:          client,
		RefreshInterval: refreshInterval,
		RefreshErrorHandler: func(err error) {
			log.Println("jwks refresh error:", err.Error())
		},
	})
	if err != nil {
		return nil, err
	}

	return &JWTVerifier{
		jwks:     jwks,
		issuer:   issuer,
		audience: audience,
	}, nil
}

// Verify is the route middleware. Unauthenticated requests stop here with
// a 401 and never reach the handler.
func (v *JWTVerifier) Verify(ctx iris.Context) {
	header := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		CreateError(iris.StatusUnauthorized, "Unauthorized", "Missing bearer token.", ctx)
		return
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	claims := jwt.MapClaims{}
	token, tokenErr := jwt.ParseWithClaims(tokenString, claims, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256"}))
	if tokenErr != nil || !token.Valid {
		CreateError(iris.StatusUnauthorized, "Unauthorized", "Invalid token.", ctx)
		return
	}

	if !claims.VerifyIssuer(v.issuer, true) || !claims.VerifyAudience(v.audience, true) {
		CreateError(iris.StatusUnauthorized, "Unauthorized", "Token issuer or audience mismatch.", ctx)
		return
	}

	if sub, ok := claims["sub"].(string); ok {
		ctx.Values().Set("authSubject", sub)
	}
	ctx.Next()
}

// Close stops the background JWKS refresh goroutine.
func (v *JWTVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}
