package screens

import (
	"fmt"
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

// CreateGameRequest はゲーム作成リクエストのボディを表す構造体です。
type CreateGameRequest struct {
	Title        string       `json:"title"`
	BoardSize    int          `json:"boardSize"`
	UseFreeSpace bool         `json:"useFreeSpace"`
	Items        []bingo.Item `json:"items"`
}

// CreateGame はゲーム作成を処理するハンドラです。アイテム数の検証は
// ここ（作成時）で行います。足りない設定のゲームは作らせないことで、
// 盤面生成側は常に入力が足りている前提で動けます。
func CreateGame(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証に失敗しました"})
		return
	}

	var request CreateGameRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Create game request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cfg := bingo.Config{
		Title:        request.Title,
		BoardSize:    request.BoardSize,
		UseFreeSpace: request.UseFreeSpace,
		Items:        request.Items,
	}
	if err := cfg.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "validation_error",
			"error":  err.Error(),
		})
		return
	}

	// ユニークなコードが引けるまで再試行。32^5通りあるので衝突はまず起きない
	var code string
	for attempt := 0; ; attempt++ {
		code = bingo.GenerateCode(randGen)
		var count int64
		if err := db.Model(&models.Game{}).Where("code = ?", code).Count(&count).Error; err != nil {
			logger.Error("ゲームコードの重複確認に失敗しました", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ゲームの作成に失敗しました"})
			return
		}
		if count == 0 {
			break
		}
		if attempt >= 4 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ゲームコードの生成に失敗しました"})
			return
		}
	}

	// ゲーム・アイテム・ホスト参加者をまとめて作成する
	err = db.Transaction(func(tx *gorm.DB) error {
		game := models.Game{
			Code:         code,
			HostID:       userID,
			Title:        request.Title,
			BoardSize:    request.BoardSize,
			UseFreeSpace: request.UseFreeSpace,
			Status:       GameActive,
		}
		if err := tx.Create(&game).Error; err != nil {
			return err
		}
		for i, item := range cfg.ValidItems() {
			gameItem := models.GameItem{
				GameID:   game.ID,
				Position: i,
				Text:     item.Text,
				ImageURL: item.ImageURL,
			}
			if err := tx.Create(&gameItem).Error; err != nil {
				return err
			}
		}
		host := models.Participant{GameCode: code, UserID: userID, IsHost: true}
		return tx.Create(&host).Error
	})
	if err != nil {
		logger.Error("Failed to create game", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ゲームの作成に失敗しました"})
		return
	}

	// 参加のホットパス用にキャッシュ。失敗しても作成自体は成功している
	if err := database.CacheGameConfig(c.Request.Context(), rdb, code, cfg); err != nil {
		logger.Warn("ゲーム設定のキャッシュに失敗しました", zap.String("code", code), zap.Error(err))
	}

	logger.Info("Game created",
		zap.String("code", code),
		zap.Uint("hostID", userID),
		zap.Int("boardSize", request.BoardSize),
	)
	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"code":         code,
		"title":        request.Title,
		"boardSize":    request.BoardSize,
		"useFreeSpace": request.UseFreeSpace,
		"neededItems":  cfg.NeededItems(),
	})
}

// validateGameActive は操作対象のゲームが進行中であることを確認します。
func validateGameActive(game *models.Game) error {
	if game.Status != GameActive {
		return fmt.Errorf("このゲームは既に%sです", game.Status)
	}
	return nil
}
