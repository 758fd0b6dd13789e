package metrics

import coremetrics "github.com/tkaufmann/fossibot-cli/core/metrics"

// MultiSink fans session events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordInbound forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordInbound(ev coremetrics.InboundEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordInbound(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordCommand forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordCommand(ev coremetrics.CommandEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordCommand(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordState forwards the sample to all sinks, returning the first error encountered.
func (m *MultiSink) RecordState(sample coremetrics.StateSample) error {
	for _, s := range m.Sinks {
		if err := s.RecordState(sample); err != nil {
			return err
		}
	}
	return nil
}
