package bingo

import (
	"math/rand"
	"strings"
)

// ゲームコードの文字種。0/Oや1/Iのような紛らわしい文字は除外しています。
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength はゲームコードの文字数です。
const CodeLength = 5

// GenerateCode は参加用のゲームコードを生成します。一意性はここでは
// 保証しないので、呼び出し側が衝突時に引き直します。
func GenerateCode(rng *rand.Rand) string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(codeAlphabet[rng.Intn(len(codeAlphabet))])
	}
	return b.String()
}

// NormalizeCode はユーザー入力のコードを正規化します。
// 前後の空白を除き、大文字に揃えます。比較は常に正規化後の値で行います。
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidCode は正規化済みのコードが形式として正しいかを返します。
func ValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(codeAlphabet, rune(s[i])) {
			return false
		}
	}
	return true
}
