package utils

import (
	"time"

	"mingoserver/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CronCleaner は放置されたゲームの定期クリーンナップを行います。
func CronCleaner(db *gorm.DB, logger *zap.Logger) {
	c := cron.New()

	// 24時間更新がないゲームをexpiredにするジョブ（毎日実行）
	c.AddFunc("@daily", func() {
		logger.Info("放置ゲームを失効させる処理を開始")
		expiredCodes := []string{}
		db.Model(&models.Game{}).
			Where("status = ? AND updated_at <= ?", "active", time.Now().Add(-24*time.Hour)).
			Pluck("code", &expiredCodes).
			Update("status", "expired")

		// 失効したゲームに残っている未処理申請を無効化する
		if len(expiredCodes) > 0 {
			db.Model(&models.WinClaim{}).
				Where("game_code IN ? AND status = ?", expiredCodes, "pending").
				Update("status", "disabled")
			logger.Info("ゲームを失効させました", zap.Int("games", len(expiredCodes)))
		}
	})

	// 終了・失効から48時間経過したゲームを関連レコードごと削除するジョブ（"分 時 日 月 曜日"）
	c.AddFunc("0 3 * * *", func() {
		logger.Info("終了済みゲームを削除する処理を開始")
		var games []models.Game
		db.Where("status IN ? AND updated_at <= ?", []string{"ended", "expired"}, time.Now().Add(-48*time.Hour)).
			Find(&games)
		if len(games) == 0 {
			return
		}

		codes := make([]string, 0, len(games))
		ids := make([]uint, 0, len(games))
		for _, game := range games {
			codes = append(codes, game.Code)
			ids = append(ids, game.ID)
		}

		// ゲーム本体より先に紐づくレコードを消す
		db.Where("game_code IN ?", codes).Delete(&models.WinClaim{})
		db.Where("game_code IN ?", codes).Delete(&models.BoardState{})
		db.Where("game_code IN ?", codes).Delete(&models.Participant{})
		db.Where("game_id IN ?", ids).Delete(&models.GameItem{})

		result := db.Where("id IN ?", ids).Delete(&models.Game{})
		if result.Error != nil {
			logger.Error("終了済みゲームの削除に失敗しました", zap.Error(result.Error))
		} else {
			logger.Info("終了済みゲームの削除完了", zap.Int("games_deleted", int(result.RowsAffected)))
		}
	})

	c.Start()
}
