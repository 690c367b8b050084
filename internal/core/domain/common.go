package domain

import "time"

// AuditFields records who created and last changed a row.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// NewAuditFields stamps a row created by actorID at the given time.
func NewAuditFields(actorID string, at time.Time) AuditFields {
	return AuditFields{CreatedAt: at, CreatedBy: actorID, LastUpdatedAt: at, LastUpdatedBy: actorID}
}
