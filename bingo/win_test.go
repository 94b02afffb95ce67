package bingo

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

// size×size の盤面をテスト用に組み立てます。中心をフリーマスにできます。
func testBoard(size int, free bool) Board {
	board := make(Board, 0, size*size)
	center := (size * size) / 2
	for i := 0; i < size*size; i++ {
		if free && i == center {
			board = append(board, Cell{Text: FreeCellText, IsFree: true})
			continue
		}
		board = append(board, Cell{Text: fmt.Sprintf("c%d", i)})
	}
	return board
}

func TestDetectWinNoMarks(t *testing.T) {
	board := testBoard(3, false)
	if win, ok := DetectWin(board, MarkSet{}, 3); ok {
		t.Fatalf("DetectWin on empty marks = %+v, want none", win)
	}
}

func TestDetectWinRow(t *testing.T) {
	board := testBoard(3, false)
	marked := MarkSetFromIndices([]int{3, 4, 5})
	win, ok := DetectWin(board, marked, 3)
	if !ok {
		t.Fatal("row not detected")
	}
	if win.Type != LineRow || win.LineIndex != 1 {
		t.Errorf("got %s/%d, want row/1", win.Type, win.LineIndex)
	}
	if !reflect.DeepEqual(win.Indices, []int{3, 4, 5}) {
		t.Errorf("indices = %v", win.Indices)
	}
	if !reflect.DeepEqual(win.Values, []string{"c3", "c4", "c5"}) {
		t.Errorf("values = %v", win.Values)
	}
}

func TestDetectWinColumn(t *testing.T) {
	board := testBoard(3, false)
	marked := MarkSetFromIndices([]int{2, 5, 8})
	win, ok := DetectWin(board, marked, 3)
	if !ok {
		t.Fatal("column not detected")
	}
	if win.Type != LineColumn || win.LineIndex != 2 {
		t.Errorf("got %s/%d, want column/2", win.Type, win.LineIndex)
	}
}

func TestDetectWinDiagonals(t *testing.T) {
	board := testBoard(3, false)

	win, ok := DetectWin(board, MarkSetFromIndices([]int{0, 4, 8}), 3)
	if !ok || win.Type != LineDiagonal || win.LineIndex != DiagonalMain {
		t.Fatalf("main diagonal: got %+v, ok=%v", win, ok)
	}

	win, ok = DetectWin(board, MarkSetFromIndices([]int{2, 4, 6}), 3)
	if !ok || win.Type != LineDiagonal || win.LineIndex != DiagonalAnti {
		t.Fatalf("anti diagonal: got %+v, ok=%v", win, ok)
	}
}

// 複数ラインが同時に成立していても、横→縦→斜めの順で最初の1本だけを返します。
func TestDetectWinOrder(t *testing.T) {
	board := testBoard(3, false)
	// 横0列目と縦0列目が同時成立
	marked := MarkSetFromIndices([]int{0, 1, 2, 3, 6})
	win, ok := DetectWin(board, marked, 3)
	if !ok {
		t.Fatal("no win detected")
	}
	if win.Type != LineRow || win.LineIndex != 0 {
		t.Errorf("got %s/%d, want row/0", win.Type, win.LineIndex)
	}

	// 縦0列目と斜めが同時成立（横は不成立）
	marked = MarkSetFromIndices([]int{0, 3, 6, 4, 8})
	win, ok = DetectWin(board, marked, 3)
	if !ok {
		t.Fatal("no win detected")
	}
	if win.Type != LineColumn || win.LineIndex != 0 {
		t.Errorf("got %s/%d, want column/0", win.Type, win.LineIndex)
	}
}

// フリーマスを通るラインの Values にはフリーマスが "FREE" として含まれます。
func TestDetectWinThroughFreeCell(t *testing.T) {
	board := testBoard(3, true)
	marked := MarkSetFromIndices([]int{3, 4, 5})
	win, ok := DetectWin(board, marked, 3)
	if !ok {
		t.Fatal("row through free cell not detected")
	}
	if !reflect.DeepEqual(win.Values, []string{"c3", FreeCellText, "c5"}) {
		t.Errorf("values = %v", win.Values)
	}
}

func TestDetectWinPartialLine(t *testing.T) {
	board := testBoard(4, false)
	marked := MarkSetFromIndices([]int{0, 1, 2}) // 4マス中3マス
	if win, ok := DetectWin(board, marked, 4); ok {
		t.Fatalf("partial line detected as win: %+v", win)
	}
}

// 生成した盤面の1ラインを全部マークすれば必ず成立します。
func TestDetectWinOnGeneratedBoard(t *testing.T) {
	cfg := Config{Items: makeItems(30), BoardSize: 5, UseFreeSpace: true}
	rng := rand.New(rand.NewSource(11))
	board := GenerateBoard(cfg, rng)

	marks := NewMarkSet(cfg)
	for col := 0; col < 5; col++ {
		marks.Mark(2*5 + col) // フリーマスを含む行
	}
	win, ok := DetectWin(board, marks, 5)
	if !ok {
		t.Fatal("marked row not detected")
	}
	if win.Type != LineRow || win.LineIndex != 2 {
		t.Errorf("got %s/%d, want row/2", win.Type, win.LineIndex)
	}
}
