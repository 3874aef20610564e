package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ValentinKolb/dConcert/lib/repository"
	"github.com/ValentinKolb/dConcert/rpc/common"
	"github.com/VictoriaMetrics/metrics"
)

// serverMetrics collects per service and operation counters and latencies
// in the prometheus text format
type serverMetrics struct {
	set *metrics.Set
}

func newServerMetrics() *serverMetrics {
	return &serverMetrics{set: metrics.NewSet()}
}

// observe records a handled request
func (m *serverMetrics) observe(service string, op common.MessageType, resp *common.Message, start time.Time) {
	labels := fmt.Sprintf(`service=%q,op=%q`, service, op.String())

	m.set.GetOrCreateCounter(`concert_rpc_requests_total{` + labels + `}`).Inc()
	m.set.GetOrCreateHistogram(`concert_rpc_request_duration_seconds{` + labels + `}`).Update(time.Since(start).Seconds())

	if resp.Err != "" {
		m.set.GetOrCreateCounter(fmt.Sprintf(`concert_rpc_errors_total{%s,code=%q}`, labels, repository.RetCode(resp.Code).String())).Inc()
	}
}

// observeUnknownService records a request for a service that is not bound
func (m *serverMetrics) observeUnknownService() {
	m.set.GetOrCreateCounter(`concert_rpc_unknown_service_total`).Inc()
}

// observeInvalidRequest records a request that could not be deserialized
func (m *serverMetrics) observeInvalidRequest(service string) {
	m.set.GetOrCreateCounter(fmt.Sprintf(`concert_rpc_invalid_requests_total{service=%q}`, service)).Inc()
}

// handler serves the collected metrics
func (m *serverMetrics) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		m.set.WritePrometheus(w)
	})
}
