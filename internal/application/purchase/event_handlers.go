package purchase

import (
	"context"

	"github.com/essentials/backend/internal/domain/purchase"
	"github.com/essentials/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PurchaseAuditHandler records purchase lifecycle events to the audit log.
// Replacement events carry the before and after quantity maps so the
// inventory deltas a reconciliation applied can be reconstructed later.
type PurchaseAuditHandler struct {
	logger *zap.Logger
}

// NewPurchaseAuditHandler creates a new audit handler for purchase events
func NewPurchaseAuditHandler(logger *zap.Logger) *PurchaseAuditHandler {
	return &PurchaseAuditHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *PurchaseAuditHandler) EventTypes() []string {
	return []string{
		purchase.EventTypePurchaseCreated,
		purchase.EventTypePurchaseUpdated,
		purchase.EventTypePurchaseLineItemsReplaced,
		purchase.EventTypePurchaseDeleted,
	}
}

// Handle writes one audit entry per purchase lifecycle event
func (h *PurchaseAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("purchase_id", event.AggregateID().String()),
		zap.String("organization_id", event.OrganizationID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}

	if replaced, ok := event.(*purchase.PurchaseLineItemsReplacedEvent); ok {
		fields = append(fields,
			zap.String("storage_location_id", replaced.StorageLocationID.String()),
			zap.Int("old_line_items", len(replaced.OldQuantities)),
			zap.Int("new_line_items", len(replaced.NewQuantities)),
		)
	}

	h.logger.Info("purchase audit", fields...)
	return nil
}
