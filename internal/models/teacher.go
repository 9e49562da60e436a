package models

import "time"

// Teacher represents an instructor record.
type Teacher struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Specialization    string    `db:"specialization" json:"specialization"`
	Email             *string   `db:"email" json:"email,omitempty"`
	MaxClassesPerWeek int       `db:"max_classes_per_week" json:"max_classes_per_week"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
