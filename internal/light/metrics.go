package light

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// lightMetrics Prometheus-метрики движка освещения. Регистрируются в
// глобальном регистре один раз на процесс: координаторов может быть
// несколько (по одному на мир), метрики у них общие.
type lightMetrics struct {
	computed prometheus.Counter
	requeued *prometheus.CounterVec
	errors   prometheus.Counter
	queueLen prometheus.Gauge
	tracked  prometheus.Gauge
	waiting  prometheus.Gauge
}

var (
	metricsOnce sync.Once
	metricsInst *lightMetrics
)

func getMetrics() *lightMetrics {
	metricsOnce.Do(func() {
		metricsInst = &lightMetrics{
			computed: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "light",
				Name:      "sections_computed_total",
				Help:      "Число секций, для которых расчёт завершился Done.",
			}),
			requeued: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "light",
				Name:      "sections_requeued_total",
				Help:      "Число повторных постановок в очередь по причинам.",
			}, []string{"reason"}),
			errors: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "light",
				Name:      "compute_errors_total",
				Help:      "Число попыток расчёта, прерванных ошибкой провайдера геометрии.",
			}),
			queueLen: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "light",
				Name:      "queue_length",
				Help:      "Текущая длина очереди пересчёта.",
			}),
			tracked: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "light",
				Name:      "sections_tracked",
				Help:      "Количество загруженных секций с записями освещения.",
			}),
			waiting: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "light",
				Name:      "sections_waiting",
				Help:      "Секции, застрявшие в ожидании Local-света незагруженного соседа.",
			}),
		}
		prometheus.MustRegister(
			metricsInst.computed,
			metricsInst.requeued,
			metricsInst.errors,
			metricsInst.queueLen,
			metricsInst.tracked,
			metricsInst.waiting,
		)
	})
	return metricsInst
}
