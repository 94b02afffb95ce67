package screens

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"mingoserver/bingo"
	"mingoserver/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// アップロードできる画像の上限サイズ
const maxImageSize = 5 * 1024 * 1024 // 5MB

// UploadImage は画像アイテム用のアップロード受付です。実体の保存は外部の
// オブジェクトストレージに委ねるため、ここでは検証と保存先ハンドルの
// 発行だけを行います。発行したURLがアイテムの imageUrl になります。
func UploadImage(c *gin.Context, logger *zap.Logger) {
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証に失敗しました"})
		return
	}

	code := bingo.NormalizeCode(c.PostForm("code"))
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "画像ファイルが必要です"})
		return
	}

	if file.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "画像サイズは5MB以下にしてください"})
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "画像ファイルのみアップロードできます"})
		return
	}

	// ユーザー/ゲームごとに整理した一意のファイル名を発行する
	ext := filepath.Ext(file.Filename)
	fileName := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.New().String()[:8], ext)
	publicURL := fmt.Sprintf("/storage/game-images/%d/%s/%s", userID, code, fileName)

	logger.Info("Image upload registered",
		zap.Uint("userID", userID),
		zap.String("code", code),
		zap.String("path", publicURL),
		zap.Int64("size", file.Size),
	)
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"imageUrl": publicURL,
	})
}
