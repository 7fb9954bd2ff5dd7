package handler

import "net/http"

// HealthCheck はプロセスの死活確認に応答する。
// インメモリの登録簿以外に依存先がないため、常に200を返す。
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
