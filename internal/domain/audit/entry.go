package audit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/shared"
)

// Modules that write to the audit trail
const (
	ModuleLoans       = "LOANS"
	ModuleCommissions = "COMMISSIONS"
	ModuleFinancial   = "FINANCIAL"
)

// Actions recorded by the settlement engine
const (
	ActionCreate             = "CREATE"
	ActionUpdate             = "UPDATE"
	ActionDelete             = "DELETE"
	ActionUpdateStatusPrefix = "UPDATE_STATUS_"
	ActionCalculateAndCreate = "CALCULATE_AND_CREATE"
	ActionApprove            = "APPROVE"
	ActionCancel             = "CANCEL"
	ActionEdit               = "EDIT"
	ActionEditApproved       = "EDIT_APPROVED"
	ActionPost               = "POST"
)

// Entry is an append-only audit trail record
type Entry struct {
	ID         uuid.UUID  `json:"id"`
	ActorID    uuid.UUID  `json:"actor_id"`
	Module     string     `json:"module"`
	Action     string     `json:"action"`
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	IP         string     `json:"ip,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
	// EventID links the entry to the domain event that produced it
	EventID *uuid.UUID `json:"event_id,omitempty"`
}

// NewEntry creates an audit entry
func NewEntry(actorID uuid.UUID, module, action string, entityID *uuid.UUID, ip string) (*Entry, error) {
	if strings.TrimSpace(module) == "" {
		return nil, shared.NewValidationError("Audit module cannot be empty")
	}
	if strings.TrimSpace(action) == "" {
		return nil, shared.NewValidationError("Audit action cannot be empty")
	}
	return &Entry{
		ID:         uuid.New(),
		ActorID:    actorID,
		Module:     module,
		Action:     action,
		EntityID:   entityID,
		IP:         ip,
		OccurredAt: time.Now(),
	}, nil
}

// Repository appends audit entries
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
}

// Recorder writes audit entries without ever failing the caller
type Recorder interface {
	Record(ctx context.Context, entry *Entry)
}
