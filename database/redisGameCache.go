package database

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"mingoserver/bingo"
	"mingoserver/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ゲーム設定キャッシュの有効期限。ゲーム自体が24時間更新なしで失効するのに
// 合わせています。
const gameConfigTTL = 24 * time.Hour

// pending申請フラグの有効期限。ポーラーが数秒おきに上書きするので、
// ポーラーが止まったら自然に消えてDBへのフォールバックに切り替わります。
const pendingWinsTTL = 30 * time.Second

func gameConfigKey(code string) string {
	return "game:" + code
}

func pendingWinsKey(code string) string {
	return "pendingwins:" + code
}

// CacheGameConfig はゲーム設定をRedisにキャッシュします。参加や盤面生成の
// ホットパスでDBを引かずに済ませるためのもので、失敗しても呼び出し元の
// 処理は続行します。
func CacheGameConfig(ctx context.Context, rdb *redis.Client, code string, cfg bingo.Config) error {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, gameConfigKey(code), cfgJSON, gameConfigTTL).Err()
}

// FetchGameConfig はキャッシュ済みのゲーム設定を返します。
// キャッシュに無ければ (nil, nil) です。
func FetchGameConfig(ctx context.Context, rdb *redis.Client, code string) (*bingo.Config, error) {
	cfgJSON, err := rdb.Get(ctx, gameConfigKey(code)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg bingo.Config
	if err := json.Unmarshal([]byte(cfgJSON), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DropGameCache はゲーム終了時にキャッシュを破棄します。
func DropGameCache(ctx context.Context, rdb *redis.Client, code string) error {
	return rdb.Del(ctx, gameConfigKey(code), pendingWinsKey(code)).Err()
}

// PendingWins はゲームの未処理申請数のキャッシュ値を返します。
// 2つ目の戻り値はキャッシュに値があったかどうかです。外れた場合、
// 呼び出し側はDBを数え直します。
func PendingWins(ctx context.Context, rdb *redis.Client, code string) (int64, bool) {
	val, err := rdb.Get(ctx, pendingWinsKey(code)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// RefreshPendingWinsFor は1ゲーム分の未処理申請数を数え直してキャッシュします。
// 申請の提出・解決の直後に呼ばれ、ホストの次のポーリングに最新値が見えます。
func RefreshPendingWinsFor(ctx context.Context, db *gorm.DB, rdb *redis.Client, code string) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.WinClaim{}).
		Where("game_code = ? AND status = ?", code, string(bingo.ClaimPending)).
		Count(&count).Error; err != nil {
		return err
	}
	return rdb.Set(ctx, pendingWinsKey(code), count, pendingWinsTTL).Err()
}

// RefreshPendingWins は全ゲームの未処理申請数をまとめてキャッシュします。
// バックグラウンドのポーラーから定期的に呼ばれます。
func RefreshPendingWins(ctx context.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	var rows []struct {
		GameCode string
		Count    int64
	}
	if err := db.WithContext(ctx).Model(&models.WinClaim{}).
		Select("game_code, count(*) as count").
		Where("status = ?", string(bingo.ClaimPending)).
		Group("game_code").
		Scan(&rows).Error; err != nil {
		logger.Error("pending申請数の集計に失敗しました", zap.Error(err))
		return
	}

	for _, row := range rows {
		if err := rdb.Set(ctx, pendingWinsKey(row.GameCode), row.Count, pendingWinsTTL).Err(); err != nil {
			logger.Error("pending申請キャッシュの更新に失敗しました",
				zap.String("gameCode", row.GameCode), zap.Error(err))
		}
	}
}
