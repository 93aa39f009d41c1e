package client

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentMetrics registers OpenTelemetry instruments that observe the
// client's health counters on each collection. Export is entirely passive:
// the read loop never touches the meter.
func (c *Client) InstrumentMetrics(meter metric.Meter) error {
	bytesRead, err := meter.Int64ObservableCounter("agwire.client.bytes_read",
		metric.WithDescription("Cumulative SSE payload bytes read"),
		metric.WithUnit("By"))
	if err != nil {
		return err
	}
	frames, err := meter.Int64ObservableCounter("agwire.client.frames_read",
		metric.WithDescription("Cumulative SSE frames read"))
	if err != nil {
		return err
	}
	delivered, err := meter.Int64ObservableCounter("agwire.client.events_delivered",
		metric.WithDescription("Events delivered to the queue"))
	if err != nil {
		return err
	}
	dropped, err := meter.Int64ObservableCounter("agwire.client.events_dropped",
		metric.WithDescription("Events dropped by the backpressure policy"))
	if err != nil {
		return err
	}
	parseErrors, err := meter.Int64ObservableCounter("agwire.client.parse_errors",
		metric.WithDescription("Frames that failed to decode or validate"))
	if err != nil {
		return err
	}
	reconnects, err := meter.Int64ObservableCounter("agwire.client.reconnect_attempts",
		metric.WithDescription("Cumulative reconnect attempts"))
	if err != nil {
		return err
	}
	rate, err := meter.Float64ObservableGauge("agwire.client.event_rate",
		metric.WithDescription("Delivered-event rate over the sliding window"),
		metric.WithUnit("1/s"))
	if err != nil {
		return err
	}

	endpoint := metric.WithAttributes(attribute.String("endpoint", c.cfg.Endpoint))
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		h := c.Health()
		o.ObserveInt64(bytesRead, int64(h.BytesRead), endpoint)
		o.ObserveInt64(frames, int64(h.FramesRead), endpoint)
		o.ObserveInt64(delivered, int64(h.EventsDelivered), endpoint)
		o.ObserveInt64(dropped, int64(h.EventsDropped), endpoint)
		o.ObserveInt64(parseErrors, int64(h.ParseErrors), endpoint)
		o.ObserveInt64(reconnects, int64(h.ReconnectAttempts), endpoint)
		o.ObserveFloat64(rate, h.EventRate, endpoint)
		return nil
	}, bytesRead, frames, delivered, dropped, parseErrors, reconnects, rate)
	return err
}
