package auth

import (
	"os"

	"mingoserver/models"

	jwt "github.com/dgrijalva/jwt-go"
)

// JwtKey はトークン署名鍵です。本番では環境変数で設定します。
var JwtKey = []byte(loadJwtKey())

func loadJwtKey() string {
	if key := os.Getenv("JWT_SECRET"); key != "" {
		return key
	}
	return "your_secret_key" // 開発用のデフォルト
}

func IsValidToken(tokenString string) (bool, error) {
	claims := &models.MyClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return JwtKey, nil
	})

	if err != nil {
		return false, err
	}

	return token.Valid, nil
}
