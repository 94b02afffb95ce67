package bingo

import (
	"errors"
	"fmt"
)

// 対応する盤面サイズの範囲
const (
	MinBoardSize = 3
	MaxBoardSize = 6
)

var (
	ErrBoardSize      = errors.New("盤面サイズは3〜6である必要があります")
	ErrNotEnoughItems = errors.New("アイテム数が盤面サイズに対して不足しています")
)

// Config は1ゲームの設定です。作成時に一度だけ検証され、以後変更されません。
// 全参加者がこの同じ設定から各自の盤面を独立に生成します。
type Config struct {
	Title        string `json:"title,omitempty"`
	Items        []Item `json:"items"`
	BoardSize    int    `json:"boardSize"`
	UseFreeSpace bool   `json:"useFreeSpace"`
}

// TotalCells は盤面のマス数を返します。
func (c Config) TotalCells() int {
	return c.BoardSize * c.BoardSize
}

// NeededItems は必要なアイテム数を返します。フリーマスを使う場合は1つ少なくなります。
func (c Config) NeededItems() int {
	if c.UseFreeSpace {
		return c.TotalCells() - 1
	}
	return c.TotalCells()
}

// CenterIndex はフリーマスの位置（幾何学的中心）を返します。
// 現在の設定から毎回計算すること。古い盤面サイズの値を使い回すと
// 設定変更後の再生成でずれます。
func (c Config) CenterIndex() int {
	return c.TotalCells() / 2
}

// ValidItems は空欄を除いたアイテムプールを返します。
func (c Config) ValidItems() []Item {
	items := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		if !it.IsBlank() {
			items = append(items, it)
		}
	}
	return items
}

// Validate はゲーム作成時の検証です。盤面生成側はここを通った設定を
// 前提に動くため、生成時には再検証しません。
func (c Config) Validate() error {
	if c.BoardSize < MinBoardSize || c.BoardSize > MaxBoardSize {
		return ErrBoardSize
	}
	if got, need := len(c.ValidItems()), c.NeededItems(); got < need {
		return fmt.Errorf("%w: %d個必要ですが%d個しかありません", ErrNotEnoughItems, need, got)
	}
	return nil
}
