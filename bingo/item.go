package bingo

import "strings"

// ItemKind はアイテムの表現種別を表します。
type ItemKind int

const (
	ItemText         ItemKind = iota // テキストのみ
	ItemImage                        // 画像のみ
	ItemTextAndImage                 // テキストと画像の両方
)

// Item はホストが登録するビンゴの1項目です。テキストのみ、画像のみ、
// またはその両方を持つことができます。
type Item struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
}

func (i Item) Kind() ItemKind {
	switch {
	case i.hasText() && i.ImageURL != "":
		return ItemTextAndImage
	case i.ImageURL != "":
		return ItemImage
	default:
		return ItemText
	}
}

// IsBlank は空欄入力（作成時にフィルタされる項目）かどうかを返します。
func (i Item) IsBlank() bool {
	return !i.hasText() && i.ImageURL == ""
}

// Label はホストが目視確認に使う表示値を返します。
// 画像のみのアイテムは画像ハンドルで代表されます。
func (i Item) Label() string {
	if i.hasText() {
		return strings.TrimSpace(i.Text)
	}
	return i.ImageURL
}

func (i Item) hasText() bool {
	return strings.TrimSpace(i.Text) != ""
}
