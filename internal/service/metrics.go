package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the service-level Prometheus collectors. Cleanup failures are
// counted rather than only logged so operators and tests can observe them.
type Metrics struct {
	UploadsTotal         prometheus.Counter
	DownloadsTotal       prometheus.Counter
	SweepsTotal          prometheus.Counter
	RecordsExpiredTotal  prometheus.Counter
	CleanupFailuresTotal prometheus.Counter
}

// NewMetrics creates and registers the service collectors.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		UploadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "filedrop_uploads_total",
			Help: "Total number of successful file uploads.",
		}),
		DownloadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "filedrop_downloads_total",
			Help: "Total number of successful file downloads.",
		}),
		SweepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "filedrop_sweeps_total",
			Help: "Total number of completed expiry sweeps.",
		}),
		RecordsExpiredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "filedrop_records_expired_total",
			Help: "Total number of records removed after their TTL passed.",
		}),
		CleanupFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "filedrop_cleanup_failures_total",
			Help: "Total number of best-effort blob deletions that failed.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.UploadsTotal,
		m.DownloadsTotal,
		m.SweepsTotal,
		m.RecordsExpiredTotal,
		m.CleanupFailuresTotal,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}
