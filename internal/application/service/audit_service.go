package service

import (
	"context"

	"github.com/garyjia/claim-adjudication/internal/application/dispatcher"
	"github.com/garyjia/claim-adjudication/internal/domain/event"
)

// AuditService is the default transition sink: it subscribes to the full
// event stream and writes structured audit entries. External systems register
// their own handlers alongside it; the core itself never persists events.
type AuditService interface {
	Register(d dispatcher.Dispatcher)
}

type auditServiceImpl struct {
	logger Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(logger Logger) AuditService {
	return &auditServiceImpl{logger: logger}
}

// Register subscribes the audit sink to every event type
func (s *auditServiceImpl) Register(d dispatcher.Dispatcher) {
	d.SubscribeNamed(dispatcher.TypeAll, "audit-log", s.handle)
}

func (s *auditServiceImpl) handle(_ context.Context, evt *event.Event) error {
	s.logger.Info("audit",
		"event_id", evt.ID,
		"event_type", evt.Type.String(),
		"entity_type", evt.EntityType,
		"entity_id", evt.EntityID,
		"from_status", evt.FromStatus,
		"to_status", evt.ToStatus,
		"actor", evt.Actor,
		"timestamp", evt.Timestamp,
	)
	return nil
}
