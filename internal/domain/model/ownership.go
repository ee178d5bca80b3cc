package model

import "time"

// BusinessRef is a lightweight reference to a business a user owns.
// The full business row is owned by the directory CRUD surface; this
// subsystem only needs existence and status.
type BusinessRef struct {
	ID        string    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Status    string    `db:"status"     json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BusinessActive is the businesses.status value that counts toward
// ownership.
const BusinessActive = "active"

// OwnershipRequestStatus values for business_ownership_requests rows.
const (
	OwnershipRequestPending  = "pending"
	OwnershipRequestApproved = "approved"
	OwnershipRequestRejected = "rejected"
)

// OwnershipRequestRef is a lightweight reference to an ownership request.
type OwnershipRequestRef struct {
	ID         string    `db:"id"          json:"id"`
	BusinessID string    `db:"business_id" json:"business_id"`
	Status     string    `db:"status"      json:"status"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
}
