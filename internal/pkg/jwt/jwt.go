package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Claims is the identity the payroll API acts on. Tokens are issued by the
// identity service; Generate exists for tooling and tests.
type Claims struct {
	UserID    string
	CompanyID string
	IsAdmin   bool
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":    claims.UserID,
		"company_id": claims.CompanyID,
		"is_admin":   claims.IsAdmin,
		"type":       "access",
		"exp":        expiresAt,
	})
	return tokenString, expiresAt, err
}

// ClaimsFromMap reads Claims out of a decoded token's private claims.
func ClaimsFromMap(m map[string]interface{}) Claims {
	var c Claims
	c.UserID, _ = m["user_id"].(string)
	c.CompanyID, _ = m["company_id"].(string)
	c.IsAdmin, _ = m["is_admin"].(bool)
	return c
}
