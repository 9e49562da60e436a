package models

import "time"

// Subject represents a taught subject.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ShortCode string    `db:"short_code" json:"short_code"`
	MaxPerDay int       `db:"max_per_day" json:"max_per_day"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
