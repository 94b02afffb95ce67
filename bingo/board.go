package bingo

import "math/rand"

// FreeCellText はフリーマスの表示値です。申請のアイテム一覧にもこの値で含まれます。
const FreeCellText = "FREE"

// Cell は盤面の1マスです。
type Cell struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
	IsFree   bool   `json:"isFree"`
}

// Value はそのマスの表示値を返します。
func (c Cell) Value() string {
	if c.IsFree {
		return FreeCellText
	}
	return Item{Text: c.Text, ImageURL: c.ImageURL}.Label()
}

// Board は参加者1人分の盤面です。左上から右へ、行ごとに並びます。
type Board []Cell

// GenerateBoard は設定から盤面を1枚生成します。呼び出しごとに独立した
// ランダムな盤面になります。全参加者が同じ設定から別々の盤面を引くことで、
// 他人の盤面から自分の並びが推測できないようにしています。
//
// アイテムの選択と配置は別々のFisher–Yatesシャッフルで行います。
// 選択シャッフルの先頭N個をそのまま並べると切り詰めの偏りが配置に残るため、
// 配置順をもう一度独立に混ぜています。
func GenerateBoard(cfg Config, rng *rand.Rand) Board {
	pool := append([]Item(nil), cfg.ValidItems()...)

	// アイテム選択のシャッフル
	for i := len(pool) - 1; i >= 1; i-- {
		j := rng.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}

	needed := cfg.NeededItems()
	selected := pool[:needed]

	// 配置のシャッフル（選択とは独立）
	placed := make([]Item, needed)
	for i, pos := range rng.Perm(needed) {
		placed[pos] = selected[i]
	}

	total := cfg.TotalCells()
	center := cfg.CenterIndex()
	board := make(Board, 0, total)
	next := 0
	for i := 0; i < total; i++ {
		if cfg.UseFreeSpace && i == center {
			board = append(board, Cell{Text: FreeCellText, IsFree: true})
			continue
		}
		it := placed[next]
		next++
		board = append(board, Cell{Text: it.Text, ImageURL: it.ImageURL})
	}
	return board
}
