package audit

import (
	"go.uber.org/zap"

	"github.com/agendlyapp/booking-platform/internal/logger"
)

type Event struct {
	TenantID       uint
	ProfessionalID *uint
	Action         string
	Entity         string
	EntityID       *uint
	Metadata       any
}

// Dispatcher writes audit entries off the request path. The queue is bounded;
// a full queue drops the entry rather than blocking an API response.
type Dispatcher struct {
	logger *Logger
	queue  chan Event
}

func NewDispatcher(l *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: l,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.TenantID,
			ev.ProfessionalID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			logger.L().Warn("audit write failed", zap.Error(err))
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		logger.L().Warn("audit queue full, dropping event",
			zap.String("action", ev.Action))
	}
}
