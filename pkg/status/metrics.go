package status

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	serverStarted = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jackselect_server_started",
			Help: "1 when the JACK server is running, 0 otherwise",
		},
	)

	bridgeStarted = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jackselect_a2j_bridge_started",
			Help: "1 when the ALSA to JACK MIDI bridge is running, 0 otherwise",
		},
	)

	sampleRateHz = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jackselect_sample_rate_hz",
			Help: "Sample rate of the running JACK server",
		},
	)

	bufferSizeFrames = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jackselect_buffer_size_frames",
			Help: "Buffer size of the running JACK server in frames",
		},
	)

	dspLoadPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jackselect_dsp_load_percent",
			Help: "DSP load of the running JACK server",
		},
	)

	xruns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jackselect_xruns",
			Help: "Xruns reported by the running JACK server since it started",
		},
	)

	latencyMilliseconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jackselect_latency_milliseconds",
			Help: "Latency reported by the running JACK server",
		},
	)

	pollFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jackselect_status_poll_failures_total",
			Help: "Total number of status polls that failed to reach the JACK server",
		},
	)
)

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func record(s Status) {
	serverStarted.Set(boolGauge(s.Started))
	bridgeStarted.Set(boolGauge(s.Bridge))

	if !s.Started {
		sampleRateHz.Set(0)
		bufferSizeFrames.Set(0)
		dspLoadPercent.Set(0)
		latencyMilliseconds.Set(0)
		return
	}

	sampleRateHz.Set(float64(s.SampleRate))
	bufferSizeFrames.Set(float64(s.BufferSize))
	dspLoadPercent.Set(s.Load)
	xruns.Set(float64(s.Xruns))
	latencyMilliseconds.Set(s.Latency)
}
