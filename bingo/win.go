package bingo

// LineType は成立したラインの種別です。
type LineType string

const (
	LineRow      LineType = "row"
	LineColumn   LineType = "column"
	LineDiagonal LineType = "diagonal"
)

// 斜めラインの番号
const (
	DiagonalMain = 0 // 左上→右下
	DiagonalAnti = 1 // 右上→左下
)

// WinResult は成立したラインの内容です。Values はその参加者の盤面に
// 実際に表示されている値で、ホストの目視確認に使われます。
// フリーマスを通るラインでは "FREE" として含まれます。
type WinResult struct {
	Type      LineType `json:"type"`
	LineIndex int      `json:"lineIndex"`
	Indices   []int    `json:"indices"`
	Values    []string `json:"values"`
}

// DetectWin は盤面とマーク集合からビンゴ成立を判定します。副作用はなく、
// マーク操作のたびに呼び直して問題ありません。
//
// 判定順は契約です: 横列（上から）→ 縦列（左から）→ 斜め（左上→右下）→
// 斜め（右上→左下）。複数ラインが同時に成立していても最初の1本を返します。
func DetectWin(board Board, marked MarkSet, size int) (*WinResult, bool) {
	// 横列のチェック
	for row := 0; row < size; row++ {
		indices := make([]int, 0, size)
		for col := 0; col < size; col++ {
			indices = append(indices, row*size+col)
		}
		if allMarked(marked, indices) {
			return lineResult(board, LineRow, row, indices), true
		}
	}

	// 縦列のチェック
	for col := 0; col < size; col++ {
		indices := make([]int, 0, size)
		for row := 0; row < size; row++ {
			indices = append(indices, row*size+col)
		}
		if allMarked(marked, indices) {
			return lineResult(board, LineColumn, col, indices), true
		}
	}

	// 斜め（左上から右下）のチェック
	indices := make([]int, 0, size)
	for i := 0; i < size; i++ {
		indices = append(indices, i*size+i)
	}
	if allMarked(marked, indices) {
		return lineResult(board, LineDiagonal, DiagonalMain, indices), true
	}

	// 斜め（右上から左下）のチェック
	indices = indices[:0]
	for i := 0; i < size; i++ {
		indices = append(indices, i*size+(size-1-i))
	}
	if allMarked(marked, indices) {
		return lineResult(board, LineDiagonal, DiagonalAnti, indices), true
	}

	return nil, false
}

func allMarked(marked MarkSet, indices []int) bool {
	for _, i := range indices {
		if !marked.Has(i) {
			return false
		}
	}
	return true
}

func lineResult(board Board, t LineType, ord int, indices []int) *WinResult {
	values := make([]string, len(indices))
	for i, ci := range indices {
		values[i] = board[ci].Value()
	}
	return &WinResult{
		Type:      t,
		LineIndex: ord,
		Indices:   append([]int(nil), indices...),
		Values:    values,
	}
}
