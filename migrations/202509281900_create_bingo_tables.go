package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var logger *zap.Logger

func init() {
	var err error
	// Zapのロガーを設定
	logger, err = zap.NewProduction()
	if err != nil {
		panic(err)
	}
}

// User モデルの定義
type User struct {
	gorm.Model
	Username           string `gorm:"not null"`
	SubscriptionStatus string `gorm:"not null;default:'free'"`
}

// Game モデルの定義
type Game struct {
	gorm.Model
	Code         string `gorm:"unique;not null"`
	HostID       uint   `gorm:"index;not null"`
	Title        string
	BoardSize    int    `gorm:"not null"`
	UseFreeSpace bool   `gorm:"not null"`
	Status       string `gorm:"index;not null;default:'active'"`
}

// GameItem モデルの定義
type GameItem struct {
	gorm.Model
	GameID   uint `gorm:"index;not null"`
	Position int  `gorm:"not null"`
	Text     string
	ImageURL string
}

// Participant モデルの定義
type Participant struct {
	gorm.Model
	GameCode string `gorm:"uniqueIndex:idx_game_user;not null"`
	UserID   uint   `gorm:"uniqueIndex:idx_game_user;not null"`
	IsHost   bool   `gorm:"not null;default:false"`
}

// BoardState モデルの定義
type BoardState struct {
	gorm.Model
	GameCode      string `gorm:"uniqueIndex:idx_board_game_user;not null"`
	UserID        uint   `gorm:"uniqueIndex:idx_board_game_user;not null"`
	Board         string `gorm:"type:text;not null"`
	MarkedIndices string `gorm:"type:text"`
	HasWon        bool   `gorm:"not null;default:false"`
}

// WinClaim モデルの定義
type WinClaim struct {
	gorm.Model
	GameCode         string `gorm:"index;not null"`
	UserID           uint   `gorm:"index;not null"`
	ClaimType        string `gorm:"not null"`
	LineIndex        int    `gorm:"not null"`
	ClaimedIndices   string `gorm:"type:text;not null"`
	ClaimedItems     string `gorm:"type:text;not null"`
	Status           string `gorm:"index;not null;default:'pending'"`
	IncorrectIndices string `gorm:"type:text"`
	ResolvedAt       *time.Time
}

// マイグレーションを実行する関数
func AutoMigrateDB(db *gorm.DB) {
	err := db.AutoMigrate(&User{}, &Game{}, &GameItem{}, &Participant{}, &BoardState{}, &WinClaim{})
	if err != nil {
		panic("Error migrating tables: " + err.Error())
	}
	fmt.Println("Bingo tables created successfully")
}

func main() {
	logger.Info("マイグレーションを開始します。")

	// 環境変数からデータベースの接続情報を取得
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	dbname := os.Getenv("DB_NAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")

	dsn := "host=" + host + " user=" + user + " dbname=" + dbname + " password=" + password + " sslmode=" + sslmode
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("データベースへの接続に失敗しました", zap.Error(err))
		return
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Error("SQLDBの取得に失敗しました", zap.Error(err))
		return
	}
	defer sqlDB.Close()
	defer logger.Sync()

	// マイグレーションを実行
	AutoMigrateDB(gormDB)
}
