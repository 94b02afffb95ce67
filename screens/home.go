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

// HomeHandler はホーム画面（ダッシュボード）の情報を提供するハンドラです。
// 参加中のゲーム一覧に加えて、ホストしているゲームに未処理の勝利申請が
// あるかどうかのフラグを返します。クライアントはこの画面を数秒おきに
// ポーリングします。
func HomeHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "token_validation_error",
			"error":  "認証に失敗しました",
		})
		return
	}

	var participants []models.Participant
	if err := db.Where("user_id = ?", userID).Order("created_at desc").Find(&participants).Error; err != nil {
		logger.Error("Failed to find games for the user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ゲーム一覧の取得に失敗しました"})
		return
	}

	gamesData := make([]gin.H, 0, len(participants))
	for _, participant := range participants {
		game, err := fetchGame(db, participant.GameCode)
		if err != nil {
			continue // 削除済みのゲームは一覧に出さない
		}

		gameData := gin.H{
			"gameCode":     game.Code,
			"title":        game.Title,
			"boardSize":    game.BoardSize,
			"useFreeSpace": game.UseFreeSpace,
			"gameStatus":   game.Status,
			"isHost":       participant.IsHost,
			"joinedAt":     participant.CreatedAt,
		}

		// ホストしている進行中ゲームには未処理申請の有無を付ける。
		// まずポーラーが維持しているキャッシュを引き、外れたらDBを数える
		if participant.IsHost && game.Status == GameActive {
			count, ok := database.PendingWins(c.Request.Context(), rdb, game.Code)
			if !ok {
				db.Model(&models.WinClaim{}).
					Where("game_code = ? AND status = ?", game.Code, string(bingo.ClaimPending)).
					Count(&count)
			}
			gameData["pendingWin"] = count > 0
		}

		gamesData = append(gamesData, gameData)
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"games":  gamesData,
	})
}
