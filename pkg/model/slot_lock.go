package model

import "time"

// SlotLock is an advisory lock covering one resource/hour pair while a
// booking request runs its overlap check; a request locks every hour its
// window touches. The unique _id insert is the mutual-exclusion primitive;
// ExpiresAt backs a TTL index so a crashed holder cannot wedge the slot.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
