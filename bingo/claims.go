package bingo

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ClaimStatus は勝利申請の状態です。pending から confirmed または rejected へ
// ちょうど一度だけ遷移します。ゲーム終了時には disabled になります。
type ClaimStatus string

const (
	ClaimPending   ClaimStatus = "pending"
	ClaimConfirmed ClaimStatus = "confirmed"
	ClaimRejected  ClaimStatus = "rejected"
	ClaimDisabled  ClaimStatus = "disabled"
)

// Claim は勝利申請1件です。存在（作成）は申請者が、Status・IncorrectIndices・
// ResolvedAt はホストだけが書き込みます。同じフィールドを複数の役割が
// 書くことはありません。
type Claim struct {
	ID               uint        `json:"id"`
	GameCode         string      `json:"gameCode"`
	UserID           uint        `json:"userId"`
	Username         string      `json:"username,omitempty"`
	Type             LineType    `json:"type"`
	LineIndex        int         `json:"lineIndex"`
	Indices          []int       `json:"indices"`
	Items            []string    `json:"items"`
	Status           ClaimStatus `json:"status"`
	IncorrectIndices []int       `json:"incorrectIndices,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	ResolvedAt       *time.Time  `json:"resolvedAt,omitempty"`
}

// ClaimStore は勝利申請の永続化層です。
type ClaimStore interface {
	Insert(ctx context.Context, claim *Claim) error
	// Pending はゲーム内の未処理申請を返します。順序は実装任せで、
	// ClaimService側で作成時刻の昇順に揃えます。
	Pending(ctx context.Context, gameCode string) ([]Claim, error)
	// LatestFor は参加者の最新の申請を返します。無ければ (nil, nil) です。
	LatestFor(ctx context.Context, gameCode string, userID uint) (*Claim, error)
	Resolve(ctx context.Context, claimID uint, status ClaimStatus, incorrect []int, resolvedAt time.Time) error
}

var (
	// ErrClaimPending は未処理の申請が残っている間の再申請です。
	ErrClaimPending = errors.New("未処理の勝利申請が既に存在します")
	// ErrClaimCooldown は直前の申請の解決からクールダウンが経過していない再申請です。
	ErrClaimCooldown = errors.New("次の申請まで時間を置いてください")
	// ErrNoIncorrectCells は誤りマスの指定がない却下です。却下には最低1マスの指定が必要です。
	ErrNoIncorrectCells = errors.New("却下には誤っているマスの指定が必要です")
	// ErrBadResolution は confirmed / rejected 以外への遷移要求です。
	ErrBadResolution = errors.New("申請はconfirmedまたはrejectedにのみ遷移できます")
	// ErrAlreadyResolved は解決済み申請への再解決です。
	ErrAlreadyResolved = errors.New("この申請は既に解決されています")
)

// DefaultClaimCooldown は申請解決後に次の申請サイクルを許すまでの既定値です。
// config.json の claim_cooldown_seconds で上書きできます。
const DefaultClaimCooldown = 5 * time.Second

// ClaimService は勝利申請のライフサイクルを管理します。
// 「同一参加者のpending申請は常に1件まで」という不変条件はここで守ります。
// マーク操作のたびに成立判定が真を返し続けても、二重に申請は作られません。
type ClaimService struct {
	store    ClaimStore
	cooldown time.Duration
	now      func() time.Time
}

func NewClaimService(store ClaimStore, cooldown time.Duration) *ClaimService {
	if cooldown <= 0 {
		cooldown = DefaultClaimCooldown
	}
	return &ClaimService{store: store, cooldown: cooldown, now: time.Now}
}

// Submit は成立したラインから新しい申請を登録します。
// pending の申請が残っている間は ErrClaimPending、解決直後のクールダウン中は
// ErrClaimCooldown を返し、どちらの場合もレコードは作られません。
func (s *ClaimService) Submit(ctx context.Context, gameCode string, userID uint, win *WinResult) (*Claim, error) {
	latest, err := s.store.LatestFor(ctx, gameCode, userID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		if latest.Status == ClaimPending {
			return nil, ErrClaimPending
		}
		if latest.ResolvedAt != nil && s.now().Sub(*latest.ResolvedAt) < s.cooldown {
			return nil, ErrClaimCooldown
		}
	}

	claim := &Claim{
		GameCode:  gameCode,
		UserID:    userID,
		Type:      win.Type,
		LineIndex: win.LineIndex,
		Indices:   append([]int(nil), win.Indices...),
		Items:     append([]string(nil), win.Values...),
		Status:    ClaimPending,
		CreatedAt: s.now(),
	}
	if err := s.store.Insert(ctx, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

// Pending はホストが確認する未処理申請を作成時刻の昇順で返します。
// 同一参加者の申請が複数あることは上のガードにより起きないはずですが、
// 起きていてもホストには早いものから見せます。
func (s *ClaimService) Pending(ctx context.Context, gameCode string) ([]Claim, error) {
	claims, err := s.store.Pending(ctx, gameCode)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(claims, func(i, j int) bool {
		return claims[i].CreatedAt.Before(claims[j].CreatedAt)
	})
	return claims, nil
}

// Resolve はホストの承認・却下を適用します。却下には誤りマスの指定が必須です。
// 承認してもゲームは終わりません。続行か終了かはホストが別途決めます。
func (s *ClaimService) Resolve(ctx context.Context, claimID uint, status ClaimStatus, incorrect []int) error {
	switch status {
	case ClaimConfirmed:
		incorrect = nil
	case ClaimRejected:
		if len(incorrect) == 0 {
			return ErrNoIncorrectCells
		}
	default:
		return ErrBadResolution
	}
	return s.store.Resolve(ctx, claimID, status, incorrect, s.now())
}

// Status は参加者自身の最新の申請を返します。pending 中の参加者が
// ポーリングで解決を待つのに使います。申請が無ければ (nil, nil) です。
func (s *ClaimService) Status(ctx context.Context, gameCode string, userID uint) (*Claim, error) {
	return s.store.LatestFor(ctx, gameCode, userID)
}
