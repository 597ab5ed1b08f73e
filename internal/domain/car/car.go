package car

import (
	"time"

	"github.com/carfleet-billing/internal/domain/money"
	"github.com/google/uuid"
)

// Status represents the fleet availability of a car
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusRented      Status = "RENTED"
	StatusMaintenance Status = "MAINTENANCE"
)

// Class is the pricing segment a car belongs to
type Class string

const (
	ClassEconomy Class = "ECONOMY"
	ClassComfort Class = "COMFORT"
	ClassPremium Class = "PREMIUM"
)

// Car is a fleet vehicle. Its status changes only through the inventory
// gateway so rental and fleet state never drift apart.
type Car struct {
	ID             uuid.UUID   `json:"id"`
	Brand          string      `json:"brand"`
	Model          string      `json:"model"`
	Class          Class       `json:"class"`
	Year           int         `json:"year"`
	BaseDailyPrice money.Money `json:"base_daily_price"`
	Status         Status      `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
