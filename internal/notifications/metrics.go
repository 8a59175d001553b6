package notifications

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "receiptnotifier"

var (
	receiptsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "receipts",
			Name:      "sent_total",
			Help:      "Total receipts sent",
		},
	)

	receiptsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "receipts",
			Name:      "failed_total",
			Help:      "Total failed receipts",
		},
	)
)
