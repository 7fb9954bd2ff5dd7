// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: activity, validation, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeActivityNotFound = "ACTIVITY_NOT_FOUND"
	ErrCodeAlreadySignedUp  = "ALREADY_SIGNED_UP"
	ErrCodeNotRegistered    = "NOT_REGISTERED"
	ErrCodeActivityFull     = "ACTIVITY_FULL"
	ErrCodeInvalidEmail     = "INVALID_EMAIL"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrorCode はerrがAPIErrorであればそのコードを返す。それ以外は空文字列を返す。
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// NewActivityNotFoundError は活動未検出エラーを生成する。
func NewActivityNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeActivityNotFound,
		Message:  "Activity not found",
		Category: "activity",
		Action:   "Check the activity name against GET /activities.",
	}
}

// NewAlreadySignedUpError は登録済みの参加者が再度申し込んだ場合のエラーを生成する。
func NewAlreadySignedUpError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeAlreadySignedUp,
		Message:  fmt.Sprintf("%s is already signed up", email),
		Category: "activity",
		Action:   "No action needed; the student is already on the roster.",
	}
}

// NewNotRegisteredError は未登録の参加者を解除しようとした場合のエラーを生成する。
func NewNotRegisteredError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeNotRegistered,
		Message:  fmt.Sprintf("%s is not registered", email),
		Category: "activity",
		Action:   "Check the email address against the activity roster.",
	}
}

// NewActivityFullError は定員超過エラーを生成する。
// 定員の厳格チェックが有効な場合のみ返される。
func NewActivityFullError(activityName string) *APIError {
	return &APIError{
		Code:     ErrCodeActivityFull,
		Message:  fmt.Sprintf("%s is full", activityName),
		Category: "activity",
		Action:   "Choose another activity or wait for a spot to open.",
	}
}

// NewMissingEmailError はemailクエリパラメータが欠けている場合のエラーを生成する。
func NewMissingEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  "email query parameter is required",
		Category: "validation",
		Action:   "Append ?email=<address> to the request URL.",
	}
}

// NewInternalError は内部エラーの統一レスポンス用エラーを生成する。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "Internal server error",
		Category: "system",
		Action:   "Please wait and try again.",
	}
}
