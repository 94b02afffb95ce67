package models

import (
	"gorm.io/gorm"
)

// BoardState は参加者ごとの盤面とマーク状態です。(game_code, user_id) で一意。
// 再参加時はここから復元し、盤面を作り直したときは丸ごと置き換えます。
type BoardState struct {
	gorm.Model
	GameCode      string `gorm:"uniqueIndex:idx_board_game_user;not null"`
	UserID        uint   `gorm:"uniqueIndex:idx_board_game_user;not null"`
	Board         string `gorm:"type:text;not null"` // bingo.Board のJSON
	MarkedIndices string `gorm:"type:text"`          // マーク済みインデックス []int のJSON
	HasWon        bool   `gorm:"not null;default:false"`
}
