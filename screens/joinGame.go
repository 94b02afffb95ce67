package screens

import (
	"net/http"
	"strings"

	"mingoserver/bingo"
	"mingoserver/middlewares"
	"mingoserver/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JoinGameRequest は参加リクエストのボディを表す構造体です。
type JoinGameRequest struct {
	Code string `json:"code"`
}

// JoinGame はゲームコードによる参加を処理するハンドラです。
// 参加済みのゲームへの再参加は何もせず成功を返します。
func JoinGame(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証に失敗しました"})
		return
	}

	var request JoinGameRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Join game request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// 入力コードは空白除去と大文字化で正規化してから照合する
	code := bingo.NormalizeCode(request.Code)
	if !bingo.ValidCode(code) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "validation_error",
			"error":  "5文字のゲームコードを入力してください",
		})
		return
	}

	game, err := fetchGame(db, code)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{
				"status": "not_found",
				"error":  "ゲームが見つかりません。コードを確認してください",
			})
			return
		}
		logger.Error("Failed to look up game", zap.String("code", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "参加に失敗しました"})
		return
	}
	if game.Status != GameActive {
		c.JSON(http.StatusGone, gin.H{
			"status": "game_over",
			"error":  "このゲームは終了しています",
		})
		return
	}

	// 参加済みかどうかを確認し、未参加なら参加者レコードを作る
	if _, err := fetchParticipant(db, code, userID); err != nil {
		if !isNotFound(err) {
			logger.Error("Failed to look up participant", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "参加に失敗しました"})
			return
		}
		participant := models.Participant{GameCode: code, UserID: userID}
		if err := db.Create(&participant).Error; err != nil {
			// 同時参加でユニーク制約に当たった場合は参加済みとして扱う
			if !strings.Contains(err.Error(), "duplicate") && !strings.Contains(err.Error(), "unique") {
				logger.Error("Failed to create participant", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "参加に失敗しました"})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"code":         code,
		"title":        game.Title,
		"boardSize":    game.BoardSize,
		"useFreeSpace": game.UseFreeSpace,
		"isHost":       game.HostID == userID,
	})
}
