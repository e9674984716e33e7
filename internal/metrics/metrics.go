// Package metrics holds the payment-domain Prometheus instruments. The HTTP
// request metrics live in middleware; both are registered together by
// middleware.InitPrometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	QRCodesRendered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qr_codes_rendered_total",
			Help: "QR code render attempts by outcome.",
		},
		[]string{"result"},
	)

	PaymentSettingsUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_settings_updates_total",
			Help: "Admin payment settings updates by outcome.",
		},
		[]string{"result"},
	)
)

func Collectors() []prometheus.Collector {
	return []prometheus.Collector{QRCodesRendered, PaymentSettingsUpdates}
}
