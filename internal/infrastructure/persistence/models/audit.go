package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lendingdesk/backend/internal/domain/audit"
)

// AuditEntryModel is the persistence model for the append-only audit trail.
type AuditEntryModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	ActorID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Module     string     `gorm:"type:varchar(30);not null;index"`
	Action     string     `gorm:"type:varchar(60);not null"`
	EntityID   *uuid.UUID `gorm:"type:uuid;index"`
	IP         string     `gorm:"type:varchar(45)"`
	OccurredAt time.Time  `gorm:"not null;index"`
	EventID    *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_log"
}

// ToDomain converts the persistence model to a domain audit Entry.
func (m *AuditEntryModel) ToDomain() *audit.Entry {
	return &audit.Entry{
		ID:         m.ID,
		ActorID:    m.ActorID,
		Module:     m.Module,
		Action:     m.Action,
		EntityID:   m.EntityID,
		IP:         m.IP,
		OccurredAt: m.OccurredAt,
		EventID:    m.EventID,
	}
}

// AuditEntryModelFromDomain creates a new persistence model from domain.
func AuditEntryModelFromDomain(e *audit.Entry) *AuditEntryModel {
	return &AuditEntryModel{
		ID:         e.ID,
		ActorID:    e.ActorID,
		Module:     e.Module,
		Action:     e.Action,
		EntityID:   e.EntityID,
		IP:         e.IP,
		OccurredAt: e.OccurredAt,
		EventID:    e.EventID,
	}
}
