package bingo

import "time"

// ClaimState は参加者ローカルの申請状態です。
type ClaimState int

const (
	StateNoClaim  ClaimState = iota // 申請なし。新しい申請を出せる
	StatePending                    // 申請中。解決待ち
	StateWon                        // 承認済み
	StateRejected                   // 却下直後。クールダウン経過でNoClaimに戻る
)

// ClaimTracker は参加者1人分のローカルな申請サイクルです。
// 成立判定がマーク操作のたびに真を返し続けても、pending 中は
// CanSubmit が偽になるので二重申請になりません。
type ClaimTracker struct {
	state      ClaimState
	claimID    uint
	cooldown   time.Duration
	rejectedAt time.Time
	now        func() time.Time
}

func NewClaimTracker(cooldown time.Duration) *ClaimTracker {
	if cooldown <= 0 {
		cooldown = DefaultClaimCooldown
	}
	return &ClaimTracker{cooldown: cooldown, now: time.Now}
}

// State は現在の状態を返します。却下からクールダウンが経過していれば
// このタイミングで NoClaim に戻ります。
func (t *ClaimTracker) State() ClaimState {
	if t.state == StateRejected && t.now().Sub(t.rejectedAt) >= t.cooldown {
		t.state = StateNoClaim
		t.claimID = 0
	}
	return t.state
}

// CanSubmit は新しい申請を出してよいかを返します。
func (t *ClaimTracker) CanSubmit() bool {
	return t.State() == StateNoClaim
}

// Submitted は申請が受理されたことを記録します。以後この申請IDの解決だけを
// 受け付けます。
func (t *ClaimTracker) Submitted(claimID uint) {
	t.state = StatePending
	t.claimID = claimID
}

// ClaimID は追跡中の申請IDを返します。
func (t *ClaimTracker) ClaimID() uint {
	return t.claimID
}

// Apply はポーリングで取得した自分の申請の解決結果を反映します。
// 追跡中の申請と一致しない結果（別画面宛ての古い応答など）は無視します。
// 却下ではホストが指摘したマスだけを外します。正しくマークしていたマスは
// そのまま残ります。ゲーム終了で申請がdisabledになった場合は申請なしに
// 戻ります。反映したかどうかを返します。
func (t *ClaimTracker) Apply(claim *Claim, marks MarkSet) bool {
	if t.state != StatePending || claim == nil || claim.ID != t.claimID {
		return false
	}
	switch claim.Status {
	case ClaimConfirmed:
		t.state = StateWon
		return true
	case ClaimRejected:
		for _, i := range claim.IncorrectIndices {
			marks.Unmark(i)
		}
		t.state = StateRejected
		t.rejectedAt = t.now()
		return true
	case ClaimDisabled:
		// ゲーム終了で申請ごと無効化された。クールダウンなしで戻す
		t.state = StateNoClaim
		t.claimID = 0
		return true
	}
	return false
}

// Reset は盤面の作り直しやゲーム退出でローカル状態を破棄します。
func (t *ClaimTracker) Reset() {
	t.state = StateNoClaim
	t.claimID = 0
	t.rejectedAt = time.Time{}
}
