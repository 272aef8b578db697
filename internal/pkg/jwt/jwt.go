package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies access tokens issued by the identity module. The engine
// does not mint user sessions itself; it only needs the company_id and
// user_id claims resolved into the request context.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateServiceToken(userID string, companyID string) (token string, expiresAt int64, err error)
}

type JWTService struct {
	secretKey           string
	accessExpirationStr string
	tokenAuth           *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessExpiration string) Service {
	return &JWTService{
		secretKey:           secretKey,
		accessExpirationStr: accessExpiration,
		tokenAuth:           jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// GenerateServiceToken mints a short-lived token for internal callers and
// tests. Interactive sessions come from the identity module with the same
// claim shape.
func (j *JWTService) GenerateServiceToken(userID string, companyID string) (string, int64, error) {
	expDuration, err := time.ParseDuration(j.accessExpirationStr)
	if err != nil {
		return "", 0, err
	}
	expiresAt := time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":    userID,
		"company_id": companyID,
		"type":       "access",
		"exp":        expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresAt, nil
}
