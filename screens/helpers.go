package screens

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"mingoserver/bingo"
	"mingoserver/database"
	"mingoserver/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ゲームの状態
const (
	GameActive  = "active"
	GameEnded   = "ended"
	GameExpired = "expired"
)

// 盤面生成とゲームコード生成で使う乱数源。複数のハンドラから同時に
// 呼ばれるため、グローバル乱数と同じ方式でソースをロックで包みます。
var randGen = rand.New(&lockedSource{src: rand.NewSource(time.Now().UnixNano()).(rand.Source64)})

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// fetchGame はコードでゲームを検索します。コードは正規化済みであること。
func fetchGame(db *gorm.DB, code string) (*models.Game, error) {
	var game models.Game
	if err := db.Where("code = ?", code).First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// fetchParticipant は参加者レコードを検索します。
func fetchParticipant(db *gorm.DB, code string, userID uint) (*models.Participant, error) {
	var participant models.Participant
	if err := db.Where("game_code = ? AND user_id = ?", code, userID).First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

// loadGameConfig はゲーム設定を取得します。参加・盤面生成のホットパスなので
// まずRedisキャッシュを引き、外れたらDBから組み立ててキャッシュを埋め直します。
func loadGameConfig(ctx context.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger, code string) (*bingo.Config, error) {
	if cfg, err := database.FetchGameConfig(ctx, rdb, code); err == nil && cfg != nil {
		return cfg, nil
	} else if err != nil {
		logger.Warn("ゲーム設定キャッシュの読み込みに失敗しました", zap.String("code", code), zap.Error(err))
	}

	game, err := fetchGame(db, code)
	if err != nil {
		return nil, err
	}
	var items []models.GameItem
	if err := db.Where("game_id = ?", game.ID).Order("position asc").Find(&items).Error; err != nil {
		return nil, err
	}

	cfg := bingo.Config{
		Title:        game.Title,
		BoardSize:    game.BoardSize,
		UseFreeSpace: game.UseFreeSpace,
		Items:        make([]bingo.Item, 0, len(items)),
	}
	for _, it := range items {
		cfg.Items = append(cfg.Items, bingo.Item{Text: it.Text, ImageURL: it.ImageURL})
	}

	if err := database.CacheGameConfig(ctx, rdb, code, cfg); err != nil {
		logger.Warn("ゲーム設定のキャッシュに失敗しました", zap.String("code", code), zap.Error(err))
	}
	return &cfg, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// mustJSON はDBのtextカラムに収める値のエンコードです。対象は数値と文字列の
// スライスだけなので失敗しません。
func mustJSON(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
