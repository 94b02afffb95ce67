package bingo

import "sort"

// MarkSet は参加者がマークしたマスのインデックス集合です。
// 参加者本人だけが書き込みます。盤面を作り直すたびに作り直されます。
type MarkSet map[int]struct{}

// NewMarkSet は新しいマークセットを返します。フリーマスを使う設定なら
// 中心マスを最初からマーク済みにします。このマークは外せません。
func NewMarkSet(cfg Config) MarkSet {
	m := MarkSet{}
	if cfg.UseFreeSpace {
		m[cfg.CenterIndex()] = struct{}{}
	}
	return m
}

// MarkSetFromIndices は保存されたインデックス列からマークセットを復元します。
func MarkSetFromIndices(indices []int) MarkSet {
	m := MarkSet{}
	for _, i := range indices {
		m[i] = struct{}{}
	}
	return m
}

func (m MarkSet) Has(i int) bool {
	_, ok := m[i]
	return ok
}

func (m MarkSet) Mark(i int) {
	m[i] = struct{}{}
}

func (m MarkSet) Unmark(i int) {
	delete(m, i)
}

// Toggle はマスのマーク状態を反転します。フリーマスは変更できません。
func (m MarkSet) Toggle(i int, board Board) {
	if i < 0 || i >= len(board) || board[i].IsFree {
		return
	}
	if m.Has(i) {
		m.Unmark(i)
	} else {
		m.Mark(i)
	}
}

// Indices は保存用にソート済みのインデックス列を返します。
func (m MarkSet) Indices() []int {
	out := make([]int, 0, len(m))
	for i := range m {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
