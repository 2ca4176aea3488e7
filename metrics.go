package mqttlite

// MetricLabels represents key-value pairs for metric labels.
type MetricLabels map[string]string

// Metrics defines the interface for collecting client metrics.
type Metrics interface {
	// Counter returns a counter metric.
	Counter(name string, labels MetricLabels) Counter

	// Gauge returns a gauge metric.
	Gauge(name string, labels MetricLabels) Gauge
}

// Counter is a monotonically increasing counter.
type Counter interface {
	Inc()
	Add(delta float64)
	Value() float64
}

// Gauge is a metric that can go up and down.
type Gauge interface {
	Set(value float64)
	Value() float64
}

// NoOpMetrics is a no-op implementation of Metrics.
type NoOpMetrics struct{}

// NewNoOpMetrics creates a new no-op metrics instance.
func NewNoOpMetrics() *NoOpMetrics {
	return &NoOpMetrics{}
}

// Counter returns a no-op counter.
func (n *NoOpMetrics) Counter(_ string, _ MetricLabels) Counter {
	return noOpCounter{}
}

// Gauge returns a no-op gauge.
func (n *NoOpMetrics) Gauge(_ string, _ MetricLabels) Gauge {
	return noOpGauge{}
}

type noOpCounter struct{}

func (noOpCounter) Inc()           {}
func (noOpCounter) Add(_ float64)  {}
func (noOpCounter) Value() float64 { return 0 }

type noOpGauge struct{}

func (noOpGauge) Set(_ float64)  {}
func (noOpGauge) Value() float64 { return 0 }

// Standard metric names for the client.
const (
	MetricConnected        = "mqtt_client_connected"
	MetricConnectsTotal    = "mqtt_client_connects_total"
	MetricPacketsSent      = "mqtt_client_packets_sent_total"
	MetricPacketsReceived  = "mqtt_client_packets_received_total"
	MetricBytesSent        = "mqtt_client_bytes_sent_total"
	MetricBytesReceived    = "mqtt_client_bytes_received_total"
	MetricMessagesSent     = "mqtt_client_messages_sent_total"
	MetricMessagesReceived = "mqtt_client_messages_received_total"
	MetricDecodeErrors     = "mqtt_client_decode_errors_total"
)

// LabelPacketType is the packet type label.
const LabelPacketType = "packet_type"

// clientMetrics provides convenience methods for the metrics a client records.
type clientMetrics struct {
	metrics Metrics
}

func (m clientMetrics) connected(up bool) {
	v := 0.0
	if up {
		v = 1
		m.metrics.Counter(MetricConnectsTotal, nil).Inc()
	}
	m.metrics.Gauge(MetricConnected, nil).Set(v)
}

func (m clientMetrics) packetSent(t PacketType, n int) {
	m.metrics.Counter(MetricPacketsSent, MetricLabels{LabelPacketType: t.String()}).Inc()
	m.metrics.Counter(MetricBytesSent, nil).Add(float64(n))
}

func (m clientMetrics) packetReceived(t PacketType, n int) {
	m.metrics.Counter(MetricPacketsReceived, MetricLabels{LabelPacketType: t.String()}).Inc()
	m.metrics.Counter(MetricBytesReceived, nil).Add(float64(n))
}

func (m clientMetrics) messageSent() {
	m.metrics.Counter(MetricMessagesSent, nil).Inc()
}

func (m clientMetrics) messageReceived() {
	m.metrics.Counter(MetricMessagesReceived, nil).Inc()
}

func (m clientMetrics) decodeError(t PacketType) {
	m.metrics.Counter(MetricDecodeErrors, MetricLabels{LabelPacketType: t.String()}).Inc()
}
