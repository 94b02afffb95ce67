package models

import (
	"time"

	"gorm.io/gorm"
)

// WinClaim は勝利申請のレコードです。行の作成は申請者が、Status・
// IncorrectIndices・ResolvedAt の書き込みはホストだけが行います。
// 同じ参加者のpending申請は同時に1件しか存在しません。
type WinClaim struct {
	gorm.Model
	GameCode         string `gorm:"index;not null"`
	UserID           uint   `gorm:"index;not null"`
	ClaimType        string `gorm:"not null"` // row, column, diagonal
	LineIndex        int    `gorm:"not null"`
	ClaimedIndices   string `gorm:"type:text;not null"` // ラインのインデックス []int のJSON
	ClaimedItems     string `gorm:"type:text;not null"` // 表示値 []string のJSON（フリーマスは"FREE"）
	Status           string `gorm:"index;not null;default:'pending'"`
	IncorrectIndices string `gorm:"type:text"` // 却下時のみ。誤りマスの []int のJSON
	ResolvedAt       *time.Time
}
