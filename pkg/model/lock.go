package model

import "time"

// ScheduleLock is an advisory lock document serialising validate-then-write
// for one photographer. The _id is deterministic so a second insert fails
// with a duplicate key error.
type ScheduleLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
