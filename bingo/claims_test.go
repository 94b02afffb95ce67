package bingo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memClaimStore は申請ストアのインメモリ実装です。
type memClaimStore struct {
	claims []*Claim
	nextID uint
}

func (s *memClaimStore) Insert(_ context.Context, claim *Claim) error {
	s.nextID++
	claim.ID = s.nextID
	stored := *claim
	s.claims = append(s.claims, &stored)
	return nil
}

func (s *memClaimStore) Pending(_ context.Context, gameCode string) ([]Claim, error) {
	// わざと新しい順で返し、呼び出し側のソートを確かめる
	out := []Claim{}
	for i := len(s.claims) - 1; i >= 0; i-- {
		c := s.claims[i]
		if c.GameCode == gameCode && c.Status == ClaimPending {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *memClaimStore) LatestFor(_ context.Context, gameCode string, userID uint) (*Claim, error) {
	for i := len(s.claims) - 1; i >= 0; i-- {
		c := s.claims[i]
		if c.GameCode == gameCode && c.UserID == userID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memClaimStore) Resolve(_ context.Context, claimID uint, status ClaimStatus, incorrect []int, resolvedAt time.Time) error {
	for _, c := range s.claims {
		if c.ID != claimID {
			continue
		}
		if c.Status != ClaimPending {
			return ErrAlreadyResolved
		}
		c.Status = status
		c.IncorrectIndices = append([]int(nil), incorrect...)
		c.ResolvedAt = &resolvedAt
		return nil
	}
	return ErrAlreadyResolved
}

func rowWin() *WinResult {
	return &WinResult{
		Type:      LineRow,
		LineIndex: 0,
		Indices:   []int{0, 1, 2},
		Values:    []string{"a", "b", "c"},
	}
}

// テスト用に時刻を差し替えたサービスを作ります。
func newTestService(store ClaimStore, cooldown time.Duration) (*ClaimService, *time.Time) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewClaimService(store, cooldown)
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestSubmitCreatesPendingClaim(t *testing.T) {
	store := &memClaimStore{}
	svc, _ := newTestService(store, 5*time.Second)

	claim, err := svc.Submit(context.Background(), "ABCDE", 7, rowWin())
	require.NoError(t, err)
	assert.Equal(t, ClaimPending, claim.Status)
	assert.Equal(t, uint(7), claim.UserID)
	assert.Equal(t, []int{0, 1, 2}, claim.Indices)
	assert.Equal(t, []string{"a", "b", "c"}, claim.Items)
	assert.NotZero(t, claim.ID)
}

// pending が残っている間の再申請はレコードを作らずに拒否されます。
func TestSubmitBlockedWhilePending(t *testing.T) {
	store := &memClaimStore{}
	svc, _ := newTestService(store, 5*time.Second)

	_, err := svc.Submit(context.Background(), "ABCDE", 7, rowWin())
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), "ABCDE", 7, rowWin())
	assert.ErrorIs(t, err, ErrClaimPending)
	assert.Len(t, store.claims, 1)

	// 別の参加者は申請できる
	_, err = svc.Submit(context.Background(), "ABCDE", 8, rowWin())
	assert.NoError(t, err)
}

// 却下直後のクールダウン中は再申請できず、経過後は再び申請できます。
func TestSubmitCooldownAfterRejection(t *testing.T) {
	store := &memClaimStore{}
	svc, now := newTestService(store, 5*time.Second)

	claim, err := svc.Submit(context.Background(), "ABCDE", 7, rowWin())
	require.NoError(t, err)
	require.NoError(t, svc.Resolve(context.Background(), claim.ID, ClaimRejected, []int{1}))

	*now = now.Add(2 * time.Second)
	_, err = svc.Submit(context.Background(), "ABCDE", 7, rowWin())
	assert.ErrorIs(t, err, ErrClaimCooldown)
	assert.Len(t, store.claims, 1)

	*now = now.Add(4 * time.Second)
	_, err = svc.Submit(context.Background(), "ABCDE", 7, rowWin())
	assert.NoError(t, err)
	assert.Len(t, store.claims, 2)
}

func TestPendingSortedByCreation(t *testing.T) {
	store := &memClaimStore{}
	svc, now := newTestService(store, 5*time.Second)

	_, err := svc.Submit(context.Background(), "ABCDE", 1, rowWin())
	require.NoError(t, err)
	*now = now.Add(time.Second)
	_, err = svc.Submit(context.Background(), "ABCDE", 2, rowWin())
	require.NoError(t, err)
	*now = now.Add(time.Second)
	_, err = svc.Submit(context.Background(), "ABCDE", 3, rowWin())
	require.NoError(t, err)

	claims, err := svc.Pending(context.Background(), "ABCDE")
	require.NoError(t, err)
	require.Len(t, claims, 3)
	assert.Equal(t, uint(1), claims[0].UserID)
	assert.Equal(t, uint(2), claims[1].UserID)
	assert.Equal(t, uint(3), claims[2].UserID)
}

func TestResolveValidation(t *testing.T) {
	store := &memClaimStore{}
	svc, _ := newTestService(store, 5*time.Second)
	claim, err := svc.Submit(context.Background(), "ABCDE", 7, rowWin())
	require.NoError(t, err)

	// 却下には誤りマスが最低1つ必要
	err = svc.Resolve(context.Background(), claim.ID, ClaimRejected, nil)
	assert.ErrorIs(t, err, ErrNoIncorrectCells)

	// confirmed / rejected 以外には遷移できない
	err = svc.Resolve(context.Background(), claim.ID, ClaimDisabled, nil)
	assert.ErrorIs(t, err, ErrBadResolution)

	// 承認に誤りマスが紛れても保存されない
	require.NoError(t, svc.Resolve(context.Background(), claim.ID, ClaimConfirmed, []int{1}))
	latest, err := svc.Status(context.Background(), "ABCDE", 7)
	require.NoError(t, err)
	assert.Equal(t, ClaimConfirmed, latest.Status)
	assert.Empty(t, latest.IncorrectIndices)
	assert.NotNil(t, latest.ResolvedAt)
}

// 解決はちょうど一度だけ適用されます。
func TestResolveExactlyOnce(t *testing.T) {
	store := &memClaimStore{}
	svc, _ := newTestService(store, 5*time.Second)
	claim, err := svc.Submit(context.Background(), "ABCDE", 7, rowWin())
	require.NoError(t, err)

	require.NoError(t, svc.Resolve(context.Background(), claim.ID, ClaimRejected, []int{2}))
	err = svc.Resolve(context.Background(), claim.ID, ClaimConfirmed, nil)
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	latest, err := svc.Status(context.Background(), "ABCDE", 7)
	require.NoError(t, err)
	assert.Equal(t, ClaimRejected, latest.Status)
	assert.Equal(t, []int{2}, latest.IncorrectIndices)
}

func TestStatusNoClaim(t *testing.T) {
	svc, _ := newTestService(&memClaimStore{}, 5*time.Second)
	claim, err := svc.Status(context.Background(), "ABCDE", 7)
	require.NoError(t, err)
	assert.Nil(t, claim)
}
