package bingo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(cooldown time.Duration) (*ClaimTracker, *time.Time) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := NewClaimTracker(cooldown)
	tr.now = func() time.Time { return now }
	return tr, &now
}

func TestTrackerSubmitCycle(t *testing.T) {
	tr, _ := newTestTracker(5 * time.Second)
	assert.Equal(t, StateNoClaim, tr.State())
	assert.True(t, tr.CanSubmit())

	tr.Submitted(41)
	assert.Equal(t, StatePending, tr.State())
	assert.False(t, tr.CanSubmit())
	assert.Equal(t, uint(41), tr.ClaimID())
}

func TestTrackerConfirmed(t *testing.T) {
	tr, _ := newTestTracker(5 * time.Second)
	tr.Submitted(41)

	marks := MarkSetFromIndices([]int{0, 5, 10})
	applied := tr.Apply(&Claim{ID: 41, Status: ClaimConfirmed}, marks)
	require.True(t, applied)
	assert.Equal(t, StateWon, tr.State())
	assert.False(t, tr.CanSubmit())
	// 承認ではマークに触らない
	assert.Equal(t, []int{0, 5, 10}, marks.Indices())
}

// 却下ではホストが指摘したマスだけが外れ、正しかったマスは残ります。
func TestTrackerRejectionUnmarksOnlyIncorrect(t *testing.T) {
	tr, _ := newTestTracker(5 * time.Second)
	tr.Submitted(41)

	marks := MarkSetFromIndices([]int{0, 5, 10})
	applied := tr.Apply(&Claim{
		ID:               41,
		Status:           ClaimRejected,
		IncorrectIndices: []int{5},
	}, marks)
	require.True(t, applied)

	assert.False(t, marks.Has(5))
	assert.True(t, marks.Has(0))
	assert.True(t, marks.Has(10))
	assert.Equal(t, StateRejected, tr.State())
}

func TestTrackerCooldownExpiry(t *testing.T) {
	tr, now := newTestTracker(5 * time.Second)
	tr.Submitted(41)
	tr.Apply(&Claim{ID: 41, Status: ClaimRejected, IncorrectIndices: []int{5}}, MarkSet{})

	assert.Equal(t, StateRejected, tr.State())
	assert.False(t, tr.CanSubmit())

	*now = now.Add(3 * time.Second)
	assert.Equal(t, StateRejected, tr.State())

	*now = now.Add(2 * time.Second)
	assert.Equal(t, StateNoClaim, tr.State())
	assert.True(t, tr.CanSubmit())
	assert.Zero(t, tr.ClaimID())
}

// 追跡中でない申請IDの結果は無視されます。
func TestTrackerIgnoresStaleClaim(t *testing.T) {
	tr, _ := newTestTracker(5 * time.Second)
	tr.Submitted(41)

	marks := MarkSetFromIndices([]int{0, 5, 10})
	applied := tr.Apply(&Claim{ID: 40, Status: ClaimRejected, IncorrectIndices: []int{5}}, marks)
	assert.False(t, applied)
	assert.Equal(t, StatePending, tr.State())
	assert.True(t, marks.Has(5))

	// pending 中でなければ一致するIDでも無視
	tr.Reset()
	applied = tr.Apply(&Claim{ID: 41, Status: ClaimConfirmed}, marks)
	assert.False(t, applied)
	assert.Equal(t, StateNoClaim, tr.State())
}

func TestTrackerIgnoresUnresolvedPoll(t *testing.T) {
	tr, _ := newTestTracker(5 * time.Second)
	tr.Submitted(41)

	// まだ pending のままの応答では状態は動かない
	applied := tr.Apply(&Claim{ID: 41, Status: ClaimPending}, MarkSet{})
	assert.False(t, applied)
	assert.Equal(t, StatePending, tr.State())
}

// ゲーム終了で申請がdisabledになった参加者は、ポーリングだけで
// pending から抜けられます。クールダウンはかかりません。
func TestTrackerDisabledOnGameEnd(t *testing.T) {
	tr, _ := newTestTracker(5 * time.Second)
	tr.Submitted(41)

	marks := MarkSetFromIndices([]int{0, 5, 10})
	applied := tr.Apply(&Claim{ID: 41, Status: ClaimDisabled}, marks)
	require.True(t, applied)
	assert.Equal(t, StateNoClaim, tr.State())
	assert.True(t, tr.CanSubmit())
	assert.Zero(t, tr.ClaimID())
	// マークには触らない
	assert.Equal(t, []int{0, 5, 10}, marks.Indices())
}

func TestTrackerReset(t *testing.T) {
	tr, _ := newTestTracker(5 * time.Second)
	tr.Submitted(41)
	tr.Apply(&Claim{ID: 41, Status: ClaimConfirmed}, MarkSet{})
	require.Equal(t, StateWon, tr.State())

	tr.Reset()
	assert.Equal(t, StateNoClaim, tr.State())
	assert.Zero(t, tr.ClaimID())
}
