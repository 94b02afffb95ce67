package screens

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"mingoserver/bingo"
	"mingoserver/database"
	"mingoserver/middlewares"
	"mingoserver/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmitClaimRequest は勝利申請リクエストのボディを表す構造体です。
// ラインの内容はクライアントから受け取りません。保存済みの盤面から
// サーバー側で判定し直します。
type SubmitClaimRequest struct {
	Code string `json:"code"`
}

// SubmitClaim は勝利申請を処理するハンドラです。ホスト以外の参加者が
// ビンゴを成立させたときに呼ばれます。同じ参加者のpending申請が残って
// いる間の再申請と、解決直後のクールダウン中の申請は受け付けません。
// ホスト自身の成立は申請を作らず自動承認になります。
func SubmitClaim(c *gin.Context, db *gorm.DB, rdb *redis.Client, cooldown time.Duration, logger *zap.Logger) {
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証に失敗しました"})
		return
	}

	var request SubmitClaimRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Submit claim request bind error", zap.Error(err))
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
	participant, err := fetchParticipant(db, code, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "このゲームに参加していません"})
		return
	}

	// 保存済みの盤面とマークから成立を判定し直す。クライアントの申告は
	// 信用しない
	win, err := detectStoredWin(db, code, userID, game.BoardSize)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "盤面が見つかりません"})
			return
		}
		logger.Error("Failed to verify win", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "申請の処理に失敗しました"})
		return
	}
	if win == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "no_win",
			"error":  "ビンゴが成立していません",
		})
		return
	}

	// ホストは信頼済みなので裁定なしで勝利扱いにする
	if participant.IsHost {
		if err := db.Model(&models.BoardState{}).
			Where("game_code = ? AND user_id = ?", code, userID).
			Update("has_won", true).Error; err != nil {
			logger.Error("Failed to mark host win", zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{
			"status":        "confirmed",
			"autoConfirmed": true,
			"win":           win,
		})
		return
	}

	service := bingo.NewClaimService(gormClaimStore{db: db}, cooldown)
	claim, err := service.Submit(c.Request.Context(), code, userID, win)
	if err != nil {
		switch {
		case errors.Is(err, bingo.ErrClaimPending):
			c.JSON(http.StatusConflict, gin.H{"status": "already_pending", "error": err.Error()})
		case errors.Is(err, bingo.ErrClaimCooldown):
			c.JSON(http.StatusTooManyRequests, gin.H{"status": "cooldown", "error": err.Error()})
		default:
			logger.Error("Failed to submit claim", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "申請の送信に失敗しました"})
		}
		return
	}

	// ホストの次のポーリングに載るようにキャッシュを更新する
	if err := database.RefreshPendingWinsFor(c.Request.Context(), db, rdb, code); err != nil {
		logger.Warn("pending申請キャッシュの更新に失敗しました", zap.Error(err))
	}

	logger.Info("Win claim submitted",
		zap.String("code", code),
		zap.Uint("userID", userID),
		zap.Uint("claimID", claim.ID),
		zap.String("lineType", string(claim.Type)),
	)
	c.JSON(http.StatusOK, gin.H{"status": "pending", "claim": claim})
}

// PendingClaims は未処理の勝利申請一覧を返すハンドラです。ホストが
// ゲーム画面でポーリングします。作成時刻の昇順で返します。
func PendingClaims(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証に失敗しました"})
		return
	}

	code := bingo.NormalizeCode(c.Query("code"))
	game, err := fetchGame(db, code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ゲームが見つかりません"})
		return
	}
	if game.HostID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "ホストのみが申請を確認できます"})
		return
	}

	service := bingo.NewClaimService(gormClaimStore{db: db}, 0)
	claims, err := service.Pending(c.Request.Context(), code)
	if err != nil {
		logger.Error("Failed to list pending claims", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "申請一覧の取得に失敗しました"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "claims": claims})
}

// ResolveClaimRequest は申請の解決リクエストのボディを表す構造体です。
type ResolveClaimRequest struct {
	ClaimID          uint   `json:"claimId"`
	Status           string `json:"status"` // "confirmed" または "rejected"
	IncorrectIndices []int  `json:"incorrectIndices"`
}

// ResolveClaim は勝利申請の承認・却下を処理するハンドラです。却下には
// 誤っているマスを最低1つ指定する必要があります。承認してもゲームは
// 続行されます。終了はホストが別途 EndGameHandler で決めます。
func ResolveClaim(c *gin.Context, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証に失敗しました"})
		return
	}

	var request ResolveClaimRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Resolve claim request bind error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var record models.WinClaim
	if err := db.First(&record, request.ClaimID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "申請が見つかりません"})
		return
	}
	game, err := fetchGame(db, record.GameCode)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ゲームが見つかりません"})
		return
	}

	// 裁定はホスト専用。UI任せにせずここで弾く
	if game.HostID != userID {
		logger.Warn("Non-host tried to resolve claim",
			zap.Uint("claimID", request.ClaimID), zap.Uint("userID", userID))
		c.JSON(http.StatusForbidden, gin.H{"error": "ホストのみが申請を解決できます"})
		return
	}

	// 却下時の誤りマスは申請されたラインの中から選ばれているはず
	if request.Status == string(bingo.ClaimRejected) {
		var claimedIndices []int
		_ = json.Unmarshal([]byte(record.ClaimedIndices), &claimedIndices)
		claimed := bingo.MarkSetFromIndices(claimedIndices)
		for _, idx := range request.IncorrectIndices {
			if !claimed.Has(idx) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "申請されていないマスが指定されています"})
				return
			}
		}
	}

	service := bingo.NewClaimService(gormClaimStore{db: db}, 0)
	err = service.Resolve(c.Request.Context(), request.ClaimID, bingo.ClaimStatus(request.Status), request.IncorrectIndices)
	if err != nil {
		switch {
		case errors.Is(err, bingo.ErrNoIncorrectCells), errors.Is(err, bingo.ErrBadResolution):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, bingo.ErrAlreadyResolved):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to resolve claim", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "申請の解決に失敗しました"})
		}
		return
	}

	// 承認された参加者の盤面を勝利済みにする
	if request.Status == string(bingo.ClaimConfirmed) {
		if err := db.Model(&models.BoardState{}).
			Where("game_code = ? AND user_id = ?", record.GameCode, record.UserID).
			Update("has_won", true).Error; err != nil {
			logger.Error("Failed to mark winner board", zap.Error(err))
		}
	}

	if err := database.RefreshPendingWinsFor(c.Request.Context(), db, rdb, record.GameCode); err != nil {
		logger.Warn("pending申請キャッシュの更新に失敗しました", zap.Error(err))
	}

	logger.Info("Win claim resolved",
		zap.Uint("claimID", request.ClaimID),
		zap.String("status", request.Status),
		zap.Ints("incorrectIndices", request.IncorrectIndices),
	)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ClaimStatus は参加者自身の最新の申請を返すハンドラです。申請中の参加者が
// 解決を待ってポーリングします。
func ClaimStatus(c *gin.Context, db *gorm.DB, logger *zap.Logger) {
	userID, err := middlewares.GetUserIDFromToken(c, logger)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "認証に失敗しました"})
		return
	}

	code := bingo.NormalizeCode(c.Query("code"))
	service := bingo.NewClaimService(gormClaimStore{db: db}, 0)
	claim, err := service.Status(c.Request.Context(), code, userID)
	if err != nil {
		logger.Error("Failed to get claim status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "申請状態の取得に失敗しました"})
		return
	}
	if claim == nil {
		c.JSON(http.StatusOK, gin.H{"status": "none"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "claim": claim})
}

// detectStoredWin は保存済みの盤面とマークから成立ラインを計算します。
// 成立していなければ (nil, nil) です。
func detectStoredWin(db *gorm.DB, code string, userID uint, boardSize int) (*bingo.WinResult, error) {
	var state models.BoardState
	if err := db.Where("game_code = ? AND user_id = ?", code, userID).First(&state).Error; err != nil {
		return nil, err
	}

	var board bingo.Board
	if err := json.Unmarshal([]byte(state.Board), &board); err != nil {
		return nil, err
	}
	var marked []int
	if state.MarkedIndices != "" {
		if err := json.Unmarshal([]byte(state.MarkedIndices), &marked); err != nil {
			return nil, err
		}
	}

	win, ok := bingo.DetectWin(board, bingo.MarkSetFromIndices(marked), boardSize)
	if !ok {
		return nil, nil
	}
	return win, nil
}
