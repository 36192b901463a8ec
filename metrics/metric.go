package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/availproject/avail-indexer/logging"
)

var (
	IndexedBlockGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "indexed_block_height",
		Help: "Latest block height fully extracted and persisted.",
	})

	PendingAccountGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pending_account_updates",
		Help: "Number of addresses waiting for a balance reconciliation flush.",
	})

	AccountFlushCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "account_flush_total",
		Help: "Number of balance reconciliation flushes executed.",
	})

	DataSubmissionCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "data_submission_total",
		Help: "Number of data submission extrinsics indexed.",
	})

	BlockFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "block_failure_total",
		Help: "Number of blocks abandoned due to a processing error.",
	})

	MetricsItems = []prometheus.Collector{
		IndexedBlockGauge,
		PendingAccountGauge,
		AccountFlushCounter,
		DataSubmissionCounter,
		BlockFailureCounter,
	}
)

const DefaultMetricsAddress = "0.0.0.0:9090"

type Metrics struct {
	httpAddress string
	registry    *prometheus.Registry
	httpServer  *http.Server
}

func NewMetrics(address string) *Metrics {
	if address == "" {
		address = DefaultMetricsAddress
	}
	return &Metrics{
		httpAddress: address,
		registry:    prometheus.NewRegistry(),
	}
}

func (m *Metrics) Start() {
	m.registry.MustRegister(MetricsItems...)
	go m.serve()
}

func (m *Metrics) serve() {
	router := mux.NewRouter()
	router.Path("/metrics").Handler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	m.httpServer = &http.Server{
		Addr:    m.httpAddress,
		Handler: router,
	}
	if err := m.httpServer.ListenAndServe(); err != nil {
		logging.Logger.Errorf("failed to listen and serve, err=%s", err.Error())
		panic(err)
	}
}
