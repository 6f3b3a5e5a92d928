package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrMissingEmployeeID = errors.New("token has no employee_id claim")

// Claims are the portal-specific claims carried by an access token.
type Claims struct {
	EmployeeID string
	Name       string
	IsAdmin    bool
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration) Service {
	if accessTokenExpirationTime <= 0 {
		accessTokenExpirationTime = time.Hour
	}
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error) {
	if claims.EmployeeID == "" {
		return "", 0, ErrMissingEmployeeID
	}
	expiresAt = time.Now().Add(j.accessTokenExpirationTime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": claims.EmployeeID,
		"name":        claims.Name,
		"is_admin":    claims.IsAdmin,
		"type":        "access",
		"exp":         expiresAt,
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode access token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ClaimsFromContext reads the claims verified by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}
	return ClaimsFromMap(raw)
}

func ClaimsFromMap(raw map[string]interface{}) (Claims, error) {
	var claims Claims

	employeeID, _ := raw["employee_id"].(string)
	if employeeID == "" {
		return Claims{}, ErrMissingEmployeeID
	}
	claims.EmployeeID = employeeID
	claims.Name, _ = raw["name"].(string)
	claims.IsAdmin, _ = raw["is_admin"].(bool)

	return claims, nil
}
