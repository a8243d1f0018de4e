package observability

import (
	"log/slog"
	"strconv"

	"fizzdex/core/events"
	"fizzdex/core/types"
)

// Sink is an events.Emitter that logs every engine event as structured JSON
// and feeds the prometheus registries. The node installs one sink across all
// engines.
type Sink struct {
	logger *slog.Logger
}

// NewSink creates a sink writing through the supplied logger. A nil logger
// falls back to the process default.
func NewSink(logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sink{logger: logger}
}

type eventPayload interface {
	Event() *types.Event
}

// Emit implements events.Emitter.
func (s *Sink) Emit(evt events.Event) {
	if s == nil || evt == nil {
		return
	}
	var record *types.Event
	if payload, ok := evt.(eventPayload); ok {
		record = payload.Event()
	}
	attrs := []any{slog.String("event", evt.EventType())}
	if record != nil {
		for key, value := range record.Attributes {
			attrs = append(attrs, slog.String(key, value))
		}
	}
	s.logger.Info("engine event", attrs...)

	metrics := Engine()
	switch evt.EventType() {
	case events.TypeSwapExecuted:
		pair, amountIn := "", uint64(0)
		if record != nil {
			pair = record.Attributes["assetA"] + "/" + record.Attributes["assetB"]
			amountIn, _ = strconv.ParseUint(record.Attributes["amountIn"], 10, 64)
		}
		metrics.RecordSwap(pair, amountIn)
	case events.TypeLiquidityAdded:
		metrics.RecordLiquidityAdd()
	case events.TypeAtomicSwapInitiated:
		metrics.RecordHTLCTransition("initiated")
	case events.TypeAtomicSwapCompleted:
		metrics.RecordHTLCTransition("completed")
	case events.TypeAtomicSwapRefunded:
		metrics.RecordHTLCTransition("refunded")
	case events.TypeFizzCapsPlayed:
		tier := ""
		if record != nil {
			tier = record.Attributes["tier"]
		}
		metrics.RecordPlay(tier)
	}
}
