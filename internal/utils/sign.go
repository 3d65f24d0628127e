package utils

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Sub  string `json:"sub"`
	Name string `json:"name"`
	Iat  int64  `json:"iat"`
	Exp  int64  `json:"exp"`
	jwt.RegisteredClaims
}

const accessTokenTTL = time.Hour

func IssueAccessToken(userId, name string, privateKey *rsa.PrivateKey) (string, error) {
	issueAt := time.Now().Unix()

	claims := &Claims{
		Sub:  userId,
		Name: name,
		Iat:  issueAt,
		Exp:  issueAt + int64(accessTokenTTL.Seconds()),
	}

	return GenerateSign(claims, privateKey)
}

func GenerateSign(claims *Claims, privateKey *rsa.PrivateKey) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub":  claims.Sub,
		"name": claims.Name,
		"iat":  claims.Iat,
		"exp":  claims.Exp,
	})

	return token.SignedString(privateKey)
}

func ParseAndVerifySign(token string, pubKey *rsa.PublicKey) (*Claims, error) {
	parsedToken, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return pubKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsedToken.Claims.(*Claims)
	if !ok || !parsedToken.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if time.Unix(claims.Exp, 0).Before(time.Now()) {
		return nil, fmt.Errorf("token expired")
	}

	return claims, nil
}
