package screens

import (
	"context"
	"encoding/json"
	"time"

	"mingoserver/bingo"
	"mingoserver/models"

	"gorm.io/gorm"
)

// gormClaimStore は bingo.ClaimStore のGORM実装です。
type gormClaimStore struct {
	db *gorm.DB
}

func (s gormClaimStore) Insert(ctx context.Context, claim *bingo.Claim) error {
	record := models.WinClaim{
		GameCode:       claim.GameCode,
		UserID:         claim.UserID,
		ClaimType:      string(claim.Type),
		LineIndex:      claim.LineIndex,
		ClaimedIndices: mustJSON(claim.Indices),
		ClaimedItems:   mustJSON(claim.Items),
		Status:         string(bingo.ClaimPending),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return err
	}
	claim.ID = record.ID
	claim.CreatedAt = record.CreatedAt
	return nil
}

func (s gormClaimStore) Pending(ctx context.Context, gameCode string) ([]bingo.Claim, error) {
	var records []models.WinClaim
	if err := s.db.WithContext(ctx).
		Where("game_code = ? AND status = ?", gameCode, string(bingo.ClaimPending)).
		Order("created_at asc").
		Find(&records).Error; err != nil {
		return nil, err
	}

	// 申請者のユーザー名を結合する（ホストの確認画面の表示用）
	usernames := map[uint]string{}
	userIDs := make([]uint, 0, len(records))
	for _, record := range records {
		userIDs = append(userIDs, record.UserID)
	}
	if len(userIDs) > 0 {
		var users []models.User
		if err := s.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, user := range users {
			usernames[user.ID] = user.Username
		}
	}

	claims := make([]bingo.Claim, 0, len(records))
	for _, record := range records {
		claims = append(claims, claimFromRecord(record, usernames[record.UserID]))
	}
	return claims, nil
}

func (s gormClaimStore) LatestFor(ctx context.Context, gameCode string, userID uint) (*bingo.Claim, error) {
	var record models.WinClaim
	err := s.db.WithContext(ctx).
		Where("game_code = ? AND user_id = ?", gameCode, userID).
		Order("created_at desc").
		First(&record).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	claim := claimFromRecord(record, "")
	return &claim, nil
}

func (s gormClaimStore) Resolve(ctx context.Context, claimID uint, status bingo.ClaimStatus, incorrect []int, resolvedAt time.Time) error {
	updates := map[string]interface{}{
		"status":      string(status),
		"resolved_at": resolvedAt,
	}
	if status == bingo.ClaimRejected {
		updates["incorrect_indices"] = mustJSON(incorrect)
	}

	// pending の行だけを更新対象にすることで、解決は一度きりになる
	result := s.db.WithContext(ctx).Model(&models.WinClaim{}).
		Where("id = ? AND status = ?", claimID, string(bingo.ClaimPending)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return bingo.ErrAlreadyResolved
	}
	return nil
}

func claimFromRecord(record models.WinClaim, username string) bingo.Claim {
	var indices, incorrect []int
	var items []string
	_ = json.Unmarshal([]byte(record.ClaimedIndices), &indices)
	_ = json.Unmarshal([]byte(record.ClaimedItems), &items)
	if record.IncorrectIndices != "" {
		_ = json.Unmarshal([]byte(record.IncorrectIndices), &incorrect)
	}

	return bingo.Claim{
		ID:               record.ID,
		GameCode:         record.GameCode,
		UserID:           record.UserID,
		Username:         username,
		Type:             bingo.LineType(record.ClaimType),
		LineIndex:        record.LineIndex,
		Indices:          indices,
		Items:            items,
		Status:           bingo.ClaimStatus(record.Status),
		IncorrectIndices: incorrect,
		CreatedAt:        record.CreatedAt,
		ResolvedAt:       record.ResolvedAt,
	}
}
