package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"checkout-pricing-api/models"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// JWTService validates the session token the checkout UI sends. Tokens are issued by the
// login service; GenerateToken exists for internal callers and tests.
type JWTService struct {
	secretKey []byte
	issuer    string
}

type Claims struct {
	Email       string          `json:"email"`
	PlanID      int             `json:"plan_id"`
	PlanType    models.PlanType `json:"plan_type"`
	AccountType string          `json:"account_type"`
	jwt.RegisteredClaims
}

func NewJWTService(secretKey, issuer string) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}
}

func (j *JWTService) GenerateToken(user models.AuthUser, duration time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:       user.Email,
		PlanID:      user.PlanID,
		PlanType:    user.PlanType,
		AccountType: user.AccountType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// ValidateToken returns the account carried by the token. The raw token is kept on the
// user so upstream calls can forward it.
func (j *JWTService) ValidateToken(tokenString string) (*models.AuthUser, error) {
	var opts []jwt.ParserOption
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}

	return &models.AuthUser{
		Email:       claims.Email,
		PlanID:      claims.PlanID,
		PlanType:    claims.PlanType,
		AccountType: claims.AccountType,
		Token:       tokenString,
	}, nil
}
