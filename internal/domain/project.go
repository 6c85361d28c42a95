package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project is a named work program that trips are billed against.
// Trips reference projects by name (denormalized), matching how the
// scheduling form and the statistics views group them.
type Project struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
