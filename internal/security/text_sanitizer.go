// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer は活動の説明文などの自由記述テキストから
// HTMLマークアップを取り除き、プレーンテキストとして扱えるようにする。
// bluemondayのStrictPolicyを使用し、タグは一切通過させない。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はプレーンテキストのサニタイズ機能を提供する。
// bluemondayのポリシーはスレッドセーフなため、複数goroutineから共有してよい。
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は全てのHTMLタグを除去したテキストを返す。
// script, styleタグは中身ごと除去される。
// bluemondayがエスケープした文字実体参照（&amp; など）は元の文字に戻す。
// 前後の空白は取り除く。
func (s *TextSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(raw)))
}
