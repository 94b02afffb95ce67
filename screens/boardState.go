package screens

import (
	"encoding/json"
	"net/http"

	"mingoserver/bingo"
	"mingoserver/middlewares"
	"mingoserver/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveBoardRequest は盤面保存リクエストのボディを表す構造体です。
type SaveBoardRequest struct {
	Code          string      `json:"code"`
	Board         bingo.Board `json:"board"`
	MarkedIndices []int       `json:"markedIndices"`
	HasWon        bool        `json:"hasWon"`
}

// SaveBoardState はマーク状態の自動保存を受けるハンドラです。
// クライアント側でクリックごとの書き込みをデバウンスしてから送ってくる
// 前提なので、ここでは受けた状態をそのまま上書き保存します。
func SaveBoardState(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証に失敗しました"})
		return
	}

	var request SaveBoardRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Save board request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	code := bingo.NormalizeCode(request.Code)
	if _, err := fetchParticipant(db, code, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "このゲームに参加していません"})
		return
	}

	if err := upsertBoardState(db, code, userID, request.Board, request.MarkedIndices, request.HasWon); err != nil {
		logger.Error("Failed to save board state",
			zap.String("code", code), zap.Uint("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "盤面の保存に失敗しました"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// LoadBoardState は保存済みの盤面を返すハンドラです。再参加時はここから
// 復元することで、参加のたびに盤面が変わってしまうのを防ぎます。
// 未生成なら not_found を返し、クライアントは盤面生成を要求します。
func LoadBoardState(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証に失敗しました"})
		return
	}

	code := bingo.NormalizeCode(c.Query("code"))
	var state models.BoardState
	if err := db.Where("game_code = ? AND user_id = ?", code, userID).First(&state).Error; err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"status": "not_found"})
			return
		}
		logger.Error("Failed to load board state", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "盤面の読み込みに失敗しました"})
		return
	}

	var board bingo.Board
	var marked []int
	if err := json.Unmarshal([]byte(state.Board), &board); err != nil {
		logger.Error("Failed to decode stored board", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "盤面の読み込みに失敗しました"})
		return
	}
	if state.MarkedIndices != "" {
		if err := json.Unmarshal([]byte(state.MarkedIndices), &marked); err != nil {
			logger.Error("Failed to decode marked indices", zap.Error(err))
			marked = nil
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"board":         board,
		"markedIndices": marked,
		"hasWon":        state.HasWon,
	})
}

// NewBoardRequest は盤面生成リクエストのボディを表す構造体です。
type NewBoardRequest struct {
	Code string `json:"code"`
}

// NewBoard は盤面の生成を処理するハンドラです。初回参加と「新しい盤面」の
// どちらもここを通り、既存の盤面とマークは丸ごと置き換えられます。
// 盤面は参加者ごとに独立してシャッフルされるため、同じ設定でも
// 他の参加者と同じ並びにはなりません。
func NewBoard(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証に失敗しました"})
		return
	}

	var request NewBoardRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("New board request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	code := bingo.NormalizeCode(request.Code)
	game, err := fetchGame(db, code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ゲームが見つかりません"})
		return
	}
	if err := validateGameActive(game); err != nil {
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
		return
	}
	if _, err := fetchParticipant(db, code, userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "このゲームに参加していません"})
		return
	}

	cfg, err := loadGameConfig(c.Request.Context(), db, rdb, logger, code)
	if err != nil {
		logger.Error("Failed to load game config", zap.String("code", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "盤面の生成に失敗しました"})
		return
	}

	board := bingo.GenerateBoard(*cfg, randGen)
	marks := bingo.NewMarkSet(*cfg)

	if err := upsertBoardState(db, code, userID, board, marks.Indices(), false); err != nil {
		logger.Error("Failed to save generated board", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "盤面の保存に失敗しました"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"board":         board,
		"markedIndices": marks.Indices(),
		"hasWon":        false,
	})
}

// upsertBoardState は (game_code, user_id) をキーに盤面を保存します。
// 同じ参加者の初回保存が同時に走ることがあるので、読んでから書くのではなく
// ユニークインデックスに対するON CONFLICTで一発で書きます。
func upsertBoardState(db *gorm.DB, code string, userID uint, board bingo.Board, marked []int, hasWon bool) error {
	state := models.BoardState{
		GameCode:      code,
		UserID:        userID,
		Board:         mustJSON(board),
		MarkedIndices: mustJSON(marked),
		HasWon:        hasWon,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_code"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"board", "marked_indices", "has_won", "updated_at"}),
	}).Create(&state).Error
}
