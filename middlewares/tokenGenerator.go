package middlewares

import (
	"time"

	"mingoserver/auth"
	"mingoserver/models"

	jwt "github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GenerateToken はJWTトークンを発行します。既存ユーザーIDが無い場合は
// 新しいUserレコードを作ってそのIDを内包させます。
func GenerateToken(db *gorm.DB, logger *zap.Logger, username, subscriptionStatus string, existingUserID uint) (string, uint, error) {
	var userID uint
	var err error

	if existingUserID > 0 {
		// 既存のユーザーIDを再利用
		userID = existingUserID
	} else {
		// 新しいユーザーIDを生成
		userID, err = GenerateUserID(db, logger, username, subscriptionStatus)
		if err != nil {
			logger.Error("トークン生成中にエラー発生", zap.Error(err))
			return "", 0, err
		}
	}

	// トークンの有効期限を設定
	var expirationTime time.Time
	if subscriptionStatus == "paid" {
		expirationTime = time.Now().Add(72 * time.Hour)
	} else {
		expirationTime = time.Now().Add(24 * time.Hour)
	}

	// JWTトークン生成時に内包するデータ
	claims := &models.MyClaims{
		UserID:             userID,
		Username:           username,
		SubscriptionStatus: subscriptionStatus,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(auth.JwtKey)

	return tokenString, userID, err
}

// GenerateUserID はGORMのオートインクリメントで新しいユーザーIDを生成します。
func GenerateUserID(db *gorm.DB, logger *zap.Logger, username, subscriptionStatus string) (uint, error) {
	if username == "" {
		username = "guest"
	}
	if subscriptionStatus == "" {
		subscriptionStatus = "free"
	}
	user := models.User{
		Username:           username,
		SubscriptionStatus: subscriptionStatus,
	}
	if err := db.Create(&user).Error; err != nil {
		logger.Error("ユーザーID生成中にエラー発生", zap.Error(err))
		return 0, err
	}
	return user.ID, nil
}
