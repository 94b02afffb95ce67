package bingo

import (
	"fmt"
	"math/rand"
	"testing"
)

func makeItems(n int) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, Item{Text: fmt.Sprintf("item-%02d", i)})
	}
	return items
}

func TestGenerateBoardSizes(t *testing.T) {
	for size := MinBoardSize; size <= MaxBoardSize; size++ {
		for _, free := range []bool{true, false} {
			name := fmt.Sprintf("size%d_free%v", size, free)
			t.Run(name, func(t *testing.T) {
				cfg := Config{
					Items:        makeItems(size * size),
					BoardSize:    size,
					UseFreeSpace: free,
				}
				if err := cfg.Validate(); err != nil {
					t.Fatalf("Validate: %v", err)
				}
				rng := rand.New(rand.NewSource(1))
				board := GenerateBoard(cfg, rng)

				if len(board) != size*size {
					t.Fatalf("len(board) = %d, want %d", len(board), size*size)
				}
				freeCount := 0
				for i, cell := range board {
					if cell.IsFree {
						freeCount++
						if i != cfg.CenterIndex() {
							t.Errorf("free cell at %d, want %d", i, cfg.CenterIndex())
						}
						if cell.Value() != FreeCellText {
							t.Errorf("free cell value = %q, want %q", cell.Value(), FreeCellText)
						}
					}
				}
				wantFree := 0
				if free {
					wantFree = 1
				}
				if freeCount != wantFree {
					t.Errorf("free cells = %d, want %d", freeCount, wantFree)
				}
			})
		}
	}
}

func TestGenerateBoardNoDuplicates(t *testing.T) {
	cfg := Config{
		Items:        makeItems(40),
		BoardSize:    5,
		UseFreeSpace: true,
	}
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		board := GenerateBoard(cfg, rng)
		seen := map[string]bool{}
		for _, cell := range board {
			if cell.IsFree {
				continue
			}
			if seen[cell.Text] {
				t.Fatalf("trial %d: duplicate item %q", trial, cell.Text)
			}
			seen[cell.Text] = true
		}
	}
}

func TestGenerateBoardSkipsBlankItems(t *testing.T) {
	items := makeItems(9)
	items = append(items, Item{Text: "   "}, Item{})
	cfg := Config{Items: items, BoardSize: 3, UseFreeSpace: false}

	rng := rand.New(rand.NewSource(3))
	board := GenerateBoard(cfg, rng)
	for i, cell := range board {
		if cell.Value() == "" {
			t.Errorf("cell %d is blank", i)
		}
	}
}

func TestGenerateBoardDeterministicPerSeed(t *testing.T) {
	cfg := Config{Items: makeItems(30), BoardSize: 4, UseFreeSpace: false}

	a := GenerateBoard(cfg, rand.New(rand.NewSource(42)))
	b := GenerateBoard(cfg, rand.New(rand.NewSource(42)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different boards at %d: %v vs %v", i, a[i], b[i])
		}
	}

	c := GenerateBoard(cfg, rand.New(rand.NewSource(43)))
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical boards")
	}
}

// 余りのあるプールから生成したとき、選ばれるアイテムと置かれる位置の
// どちらにも目立った偏りが出ないことを確認します。
func TestGenerateBoardDistribution(t *testing.T) {
	const trials = 2000
	cfg := Config{Items: makeItems(16), BoardSize: 3, UseFreeSpace: true}
	rng := rand.New(rand.NewSource(99))

	selected := map[string]int{}
	atZero := map[string]int{}
	for i := 0; i < trials; i++ {
		board := GenerateBoard(cfg, rng)
		for _, cell := range board {
			if !cell.IsFree {
				selected[cell.Text]++
			}
		}
		atZero[board[0].Text]++
	}

	// 16個中8個が毎回選ばれるので期待値は trials/2
	for _, it := range cfg.Items {
		n := selected[it.Text]
		if n < trials/4 || n > 3*trials/4 {
			t.Errorf("item %q selected %d times out of %d, biased", it.Text, n, trials)
		}
	}
	// マス0に来る確率は 1/16
	for text, n := range atZero {
		if n > trials/4 {
			t.Errorf("item %q landed on cell 0 %d times out of %d, biased", text, n, trials)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{Items: makeItems(8), BoardSize: 3, UseFreeSpace: true}, false},
		{"too small", Config{Items: makeItems(8), BoardSize: 2, UseFreeSpace: true}, true},
		{"too large", Config{Items: makeItems(50), BoardSize: 7, UseFreeSpace: false}, true},
		{"not enough items", Config{Items: makeItems(7), BoardSize: 3, UseFreeSpace: true}, true},
		{"free space saves one item", Config{Items: makeItems(8), BoardSize: 3, UseFreeSpace: false}, true},
		{"blanks do not count", Config{Items: append(makeItems(7), Item{Text: "  "}), BoardSize: 3, UseFreeSpace: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCenterIndexTracksBoardSize(t *testing.T) {
	cfg := Config{BoardSize: 3}
	if got := cfg.CenterIndex(); got != 4 {
		t.Errorf("CenterIndex(3) = %d, want 4", got)
	}
	cfg.BoardSize = 5
	if got := cfg.CenterIndex(); got != 12 {
		t.Errorf("CenterIndex(5) = %d, want 12", got)
	}
	cfg.BoardSize = 4
	if got := cfg.CenterIndex(); got != 8 {
		t.Errorf("CenterIndex(4) = %d, want 8", got)
	}
}
