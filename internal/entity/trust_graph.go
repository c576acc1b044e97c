package entity

import "time"

// TrustGraphSnapshot is one whole-graph build for an owner. At most one
// snapshot exists per (owner, graph_date); rebuilding the same day replaces
// it, older dates are kept for history.
type TrustGraphSnapshot struct {
	Base

	OwnerUserID string `gorm:"uniqueIndex:idx_trust_graph_owner_date"`
	OwnerUser   User   `gorm:"foreignKey:OwnerUserID"`

	GraphDate string `gorm:"uniqueIndex:idx_trust_graph_owner_date"`

	// AsOf is the explicit build time; decay is computed against it, never
	// against the wall clock, so rebuilding from the same log is
	// deterministic.
	AsOf time.Time
}

// TrustEdge belongs to exactly one snapshot and is never patched in place.
type TrustEdge struct {
	SnapshotID string             `gorm:"primaryKey"`
	Snapshot   TrustGraphSnapshot `gorm:"foreignKey:SnapshotID"`

	TargetUserID string `gorm:"primaryKey"`
	TargetUser   User   `gorm:"foreignKey:TargetUserID"`

	TrustScore     float64
	LastSeen       time.Time
	SharedEventIDs Array[string]

	// Position is the 1-based rank of the edge after sorting by trust score
	// descending, target id ascending.
	Position int
}
