package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

var (
	renderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vcard",
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering one card.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	renderTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vcard",
			Name:      "render_total",
			Help:      "Card renders by outcome.",
		},
		[]string{"outcome"},
	)

	imageLoadFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vcard",
			Name:      "image_load_failures_total",
			Help:      "Image elements dropped from a render because their asset failed to load.",
		},
		[]string{"element"},
	)

	qrEncodeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vcard",
			Name:      "qr_encode_total",
			Help:      "QR encodings by style and outcome.",
		},
		[]string{"style", "outcome"},
	)
)

// ObserveRender records one finished render.
func ObserveRender(outcome string, d time.Duration) {
	renderDuration.Observe(d.Seconds())
	renderTotal.WithLabelValues(outcome).Inc()
}

// ImageLoadFailed matches render.WithImageFailureHook.
func ImageLoadFailed(element string, _ error) {
	imageLoadFailures.WithLabelValues(element).Inc()
}

func ObserveQR(style string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	qrEncodeTotal.WithLabelValues(style, outcome).Inc()
}
