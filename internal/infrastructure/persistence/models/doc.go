// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: AggregateModel (id, timestamps, version)
// - loan.go: loans table
// - commission.go: commissions table, one row per loan
// - ledger.go: financial_transactions table, append-only
// - audit.go: audit_log table, append-only
package models
