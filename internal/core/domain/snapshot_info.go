package domain

import "time"

// SnapshotInfo records the inputs fingerprint of the last snapshot taken for a component.
type SnapshotInfo struct {
	Component   string    `json:"component,omitzero"`
	Fingerprint string    `json:"fingerprint,omitzero"`
	Version     Ref       `json:"version,omitzero"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
}
