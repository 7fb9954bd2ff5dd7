// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 申込み・解除の結果ラベル
const (
	ResultSuccess       = "success"
	ResultNotFound      = "not_found"
	ResultDuplicate     = "already_signed_up"
	ResultNotRegistered = "not_registered"
	ResultFull          = "full"
	ResultError         = "error"
)

// RosterRecorder はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type RosterRecorder interface {
	RecordSignup(result string)
	RecordUnregister(result string)
	ObserveRoster(activity string, participants, capacity int)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	signups      *prometheus.CounterVec
	unregisters  *prometheus.CounterVec
	participants *prometheus.GaugeVec
	capacity     *prometheus.GaugeVec
	httpStatus   *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activityhub_signups_total",
			Help: "活動への申込み件数（結果別）",
		}, []string{"result"}),
		unregisters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activityhub_unregisters_total",
			Help: "活動からの登録解除件数（結果別）",
		}, []string{"result"}),
		participants: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "activityhub_participants",
			Help: "活動ごとの現在の参加者数",
		}, []string{"activity"}),
		capacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "activityhub_capacity",
			Help: "活動ごとの定員",
		}, []string{"activity"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activityhub_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.signups,
		c.unregisters,
		c.participants,
		c.capacity,
		c.httpStatus,
	)

	return c
}

// RecordSignup は申込みの結果を記録する。
func (c *Collector) RecordSignup(result string) {
	c.signups.WithLabelValues(result).Inc()
}

// RecordUnregister は登録解除の結果を記録する。
func (c *Collector) RecordUnregister(result string) {
	c.unregisters.WithLabelValues(result).Inc()
}

// ObserveRoster は活動の参加者数と定員を記録する。
func (c *Collector) ObserveRoster(activity string, participants, capacity int) {
	c.participants.WithLabelValues(activity).Set(float64(participants))
	c.capacity.WithLabelValues(activity).Set(float64(capacity))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop は何も記録しないRosterRecorder。
// メトリクスを使わないテストや構成で利用する。
type Nop struct{}

func (Nop) RecordSignup(string) {}
func (Nop) RecordUnregister(string) {}
func (Nop) ObserveRoster(string, int, int) {}
func (Nop) RecordHTTPStatus(int) {}
