package models

import (
	"gorm.io/gorm"
)

// Game はホストが作成した1ゲームです。Code が参加用の合言葉になります。
// 設定（盤面サイズ・フリーマス・アイテムプール）は作成後に変更されません。
type Game struct {
	gorm.Model
	Code         string `gorm:"unique;not null"` // 5文字のゲームコード
	HostID       uint   `gorm:"index;not null"`  // Userテーブルを参照
	Title        string
	BoardSize    int        `gorm:"not null"`
	UseFreeSpace bool       `gorm:"not null"`
	Status       string     `gorm:"index;not null;default:'active'"` // active, ended, expired
	Items        []GameItem `gorm:"foreignKey:GameID"`               // アイテムプール
}

// GameItem はアイテムプールの1項目です。テキストと画像URLのどちらか、
// または両方を持ちます。
type GameItem struct {
	gorm.Model
	GameID   uint `gorm:"index;not null"` // Gameテーブルを参照
	Position int  `gorm:"not null"`       // 登録順
	Text     string
	ImageURL string
}

// Participant は参加者（ホスト含む）とゲームの結びつきです。
// 同じゲームへの再参加は新しい行を作りません。
type Participant struct {
	gorm.Model
	GameCode string `gorm:"uniqueIndex:idx_game_user;not null"`
	UserID   uint   `gorm:"uniqueIndex:idx_game_user;not null"`
	IsHost   bool   `gorm:"not null;default:false"`
}
