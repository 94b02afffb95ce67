package screens

import (
	"net/http"

	"mingoserver/middlewares"
	"mingoserver/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LoginHandler はトークンの発行と更新を行うハンドラです。
// 有効なトークンが無ければ新しいユーザーを作ってトークンを返します。
// 認証そのものは薄い境界で、ゲームのロジックはユーザーIDしか見ません。
func LoginHandler(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	var request models.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Login request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, newToken, tokenValid, err := middlewares.TokenAuthentication(c, db, logger, request.Username, request.SubscriptionStatus)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "トークン生成に失敗しました"})
		return
	}

	if !tokenValid {
		// 新規発行。クライアントは以後このトークンを使う
		c.JSON(http.StatusOK, gin.H{
			"status": "token_issued",
			"token":  newToken,
			"userId": userID,
		})
		return
	}

	response := gin.H{
		"status": "success",
		"userId": userID,
	}
	if newToken != "" {
		// 有効期限が近いので更新されたトークンを返す
		response["token"] = newToken
	}
	c.JSON(http.StatusOK, response)
}
