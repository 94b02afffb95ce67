package models

// Config 構造体はデータベース接続とゲーム運用の設定情報を保持します。
type Config struct {
	DBHost     string `json:"db_host"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBName     string `json:"db_name"`
	DBSSLMode  string `json:"db_sslmode"`

	// 申請解決後に次の申請サイクルを許すまでの秒数。0なら既定値（5秒）。
	ClaimCooldownSeconds int `json:"claim_cooldown_seconds"`
	// pending申請キャッシュを更新するポーリング間隔の秒数。0なら既定値（2秒）。
	PollIntervalSeconds int `json:"poll_interval_seconds"`
}
