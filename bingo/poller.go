package bingo

import (
	"context"
	"time"
)

// DefaultPollInterval はポーリングの既定間隔です。同期はすべてこの周期の
// ポーリングで行われ、プッシュ配信はありません。遅延は最大1周期です。
const DefaultPollInterval = 2 * time.Second

// Poller は画面の滞在期間に束縛された周期タスクです。ctx のキャンセルで
// 確実に停止します。タイマーIDをコールバックの間で持ち回す代わりに、
// 「この画面にいる間」を1つのcontextとして表現します。
type Poller struct {
	Interval time.Duration
	Tick     func(ctx context.Context)
}

// Run は ctx がキャンセルされるまで Interval ごとに Tick を呼び続けます。
// 通常はゴルーチンで起動し、画面を離れるときに cancel します。
func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}
