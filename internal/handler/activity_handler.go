package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/activityhub/internal/middleware"
	"github.com/hitoshi/activityhub/internal/model"
)

// ActivityServiceInterface は活動ハンドラーが必要とするサービスインターフェース。
type ActivityServiceInterface interface {
	// ListActivities は全活動のスナップショットを返す。
	ListActivities(ctx context.Context) (map[string]model.Activity, error)
	// SignUp は参加者を活動に登録し、確認メッセージを返す。
	SignUp(ctx context.Context, activityName, email string) (string, error)
	// Unregister は参加者を活動から外し、確認メッセージを返す。
	Unregister(ctx context.Context, activityName, email string) (string, error)
}

// ActivityHandler は活動一覧・申込み・解除のHTTPハンドラー。
type ActivityHandler struct {
	service ActivityServiceInterface
}

// NewActivityHandler はActivityHandlerを生成する。
func NewActivityHandler(service ActivityServiceInterface) *ActivityHandler {
	return &ActivityHandler{
		service: service,
	}
}

// messageResponse は申込み・解除成功時のAPIレスポンス。
type messageResponse struct {
	Message string `json:"message"`
}

// ListActivities は全活動と参加者一覧を返す。
// GET /activities
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.service.ListActivities(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, activities)
}

// SignUp は活動への申込みを処理する。
// POST /activities/{activity_name}/signup?email=
func (h *ActivityHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	name, email, ok := parseRosterRequest(w, r)
	if !ok {
		return
	}

	msg, err := h.service.SignUp(r.Context(), name, email)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// Unregister は活動からの登録解除を処理する。
// POST /activities/{activity_name}/unregister?email=
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	name, email, ok := parseRosterRequest(w, r)
	if !ok {
		return
	}

	msg, err := h.service.Unregister(r.Context(), name, email)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// SetupActivityRoutes は活動関連のルーティングを設定したchi.Routerを返す。
// writeMiddleware が nil でない場合、申込み・解除に書き込み系レート制限を適用する。
func SetupActivityRoutes(service ActivityServiceInterface, writeMiddleware func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	mountActivityRoutes(r, NewActivityHandler(service), writeMiddleware)
	return r
}

func mountActivityRoutes(r chi.Router, h *ActivityHandler, writeMiddleware func(http.Handler) http.Handler) {
	r.Route("/activities", func(r chi.Router) {
		r.Get("/", h.ListActivities)

		r.Route("/{activity_name}", func(r chi.Router) {
			if writeMiddleware != nil {
				r.Use(writeMiddleware)
			}
			r.Post("/signup", h.SignUp)
			r.Post("/unregister", h.Unregister)
		})
	})
}

// --- ヘルパー関数 ---

// parseRosterRequest はパスの活動名とクエリのemailを取り出す。
// emailが欠けている場合は422を書き込みfalseを返す。
func parseRosterRequest(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	name := activityNameParam(r)

	email := r.URL.Query().Get("email")
	if email == "" {
		writeAPIErrorResponse(w, http.StatusUnprocessableEntity, model.NewMissingEmailError())
		return "", "", false
	}

	return name, email, true
}

// activityNameParam はパスセグメントから活動名を取り出し、パーセントデコードする。
// chiはRawPathがある場合にエンコード済みの値を返すため、その場合のみデコードする。
func activityNameParam(r *http.Request) string {
	name := chi.URLParam(r, "activity_name")
	if r.URL.RawPath == "" {
		return name
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
// 想定内のエラーはログに残さない。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.ErrorContext(r.Context(), "internal server error",
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
	)
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeActivityNotFound:
		return http.StatusNotFound
	case model.ErrCodeAlreadySignedUp, model.ErrCodeNotRegistered, model.ErrCodeActivityFull:
		return http.StatusBadRequest
	case model.ErrCodeInvalidEmail:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
