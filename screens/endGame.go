package screens

import (
	"net/http"

	"mingoserver/bingo"
	"mingoserver/database"
	"mingoserver/middlewares"
	"mingoserver/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EndGameHandler はゲーム終了を処理するハンドラです。勝利を承認しても
// ゲームは自動では終わらないため、ホストは続行か終了かをこの操作で
// 明示的に決めます。終了できるのはホストだけです。
func EndGameHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証に失敗しました"})
		return
	}

	code := bingo.NormalizeCode(c.Query("code"))
	game, err := fetchGame(db, code)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ゲームが見つかりません"})
			return
		}
		logger.Error("Failed to look up game", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ゲームの終了に失敗しました"})
		return
	}

	// ホスト以外の終了要求はUIではなくここで弾く
	if game.HostID != userID {
		logger.Warn("Non-host tried to end game",
			zap.String("code", code), zap.Uint("userID", userID))
		c.JSON(http.StatusForbidden, gin.H{"error": "ホストのみがゲームを終了できます"})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Game{}).
			Where("id = ?", game.ID).
			Update("status", GameEnded).Error; err != nil {
			return err
		}
		// 残っている未処理申請は無効化する
		return tx.Model(&models.WinClaim{}).
			Where("game_code = ? AND status = ?", code, string(bingo.ClaimPending)).
			Update("status", string(bingo.ClaimDisabled)).Error
	})
	if err != nil {
		logger.Error("Failed to end game", zap.String("code", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ゲームの終了に失敗しました"})
		return
	}

	if err := database.DropGameCache(c.Request.Context(), rdb, code); err != nil {
		logger.Warn("ゲームキャッシュの破棄に失敗しました", zap.String("code", code), zap.Error(err))
	}

	logger.Info("Game ended", zap.String("code", code), zap.Uint("hostID", userID))
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "ゲームを終了しました"})
}
