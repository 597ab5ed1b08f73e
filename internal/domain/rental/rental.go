package rental

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a rental agreement
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusActive    Status = "ACTIVE"
	StatusReturned  Status = "RETURNED"
	StatusClosed    Status = "CLOSED"
	StatusCancelled Status = "CANCELLED"
)

// Operation names used in transition errors
const (
	OpActivate  = "activate"
	OpReturnCar = "return_car"
	OpClose     = "close"
)

// Agreement is a rental contract binding a customer to a car for a date range.
// Status is the only field a lifecycle transition mutates.
type Agreement struct {
	ID                 uuid.UUID  `json:"id"`
	CustomerID         uuid.UUID  `json:"customer_id"`
	CarID              uuid.UUID  `json:"car_id"`
	IssueDate          time.Time  `json:"issue_date"`
	ExpectedReturnDate time.Time  `json:"expected_return_date"`
	ActualReturnDate   *time.Time `json:"actual_return_date,omitempty"`
	Status             Status     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewAgreement creates a DRAFT agreement. The expected return date must be
// strictly after the issue date.
func NewAgreement(customerID, carID uuid.UUID, issueDate, expectedReturnDate time.Time) (*Agreement, error) {
	issueDate = Day(issueDate)
	expectedReturnDate = Day(expectedReturnDate)
	if !expectedReturnDate.After(issueDate) {
		return nil, ErrInvalidDate{Reason: "expected return date must be after issue date"}
	}
	now := time.Now().UTC()
	return &Agreement{
		ID:                 uuid.New(),
		CustomerID:         customerID,
		CarID:              carID,
		IssueDate:          issueDate,
		ExpectedReturnDate: expectedReturnDate,
		Status:             StatusDraft,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// Activate moves a DRAFT agreement to ACTIVE. Activating an already ACTIVE
// agreement is a no-op; any other source status is an illegal transition.
func (a *Agreement) Activate() error {
	switch a.Status {
	case StatusActive:
		return nil
	case StatusDraft:
		a.Status = StatusActive
		return nil
	default:
		return ErrIllegalTransition{From: a.Status, Op: OpActivate}
	}
}

// ReturnCar moves an ACTIVE agreement to RETURNED. Returning an already
// RETURNED agreement is a no-op; any other source status is an illegal
// transition.
func (a *Agreement) ReturnCar() error {
	switch a.Status {
	case StatusReturned:
		return nil
	case StatusActive:
		a.Status = StatusReturned
		return nil
	default:
		return ErrIllegalTransition{From: a.Status, Op: OpReturnCar}
	}
}

// Close finalizes the agreement: RETURNED becomes CLOSED, DRAFT becomes
// CANCELLED. All other source statuses are illegal, including CLOSED itself.
func (a *Agreement) Close() error {
	switch a.Status {
	case StatusReturned:
		a.Status = StatusClosed
		return nil
	case StatusDraft:
		a.Status = StatusCancelled
		return nil
	default:
		return ErrIllegalTransition{From: a.Status, Op: OpClose}
	}
}

// MarkReturned records the actual return date. The date must not precede the
// issue date and cannot be changed once set.
func (a *Agreement) MarkReturned(actualReturnDate time.Time) error {
	actualReturnDate = Day(actualReturnDate)
	if actualReturnDate.Before(a.IssueDate) {
		return ErrInvalidDate{Reason: "actual return date precedes issue date"}
	}
	if a.ActualReturnDate != nil {
		return ErrInvalidDate{Reason: "actual return date already recorded"}
	}
	a.ActualReturnDate = &actualReturnDate
	return nil
}

// DurationDays is the billable length of the rental in days, never less
// than one even for a same-day return.
func (a *Agreement) DurationDays() int64 {
	if a.ActualReturnDate == nil {
		return 1
	}
	days := DaysBetween(a.IssueDate, *a.ActualReturnDate)
	if days < 1 {
		return 1
	}
	return days
}

// LateDays is the number of whole days the actual return exceeds the
// expected return date, zero when on time or early.
func (a *Agreement) LateDays() int64 {
	if a.ActualReturnDate == nil {
		return 0
	}
	late := DaysBetween(a.ExpectedReturnDate, *a.ActualReturnDate)
	if late < 0 {
		return 0
	}
	return late
}

// Day truncates a timestamp to its UTC calendar date
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of calendar days from a to b
func DaysBetween(a, b time.Time) int64 {
	return int64(Day(b).Sub(Day(a)) / (24 * time.Hour))
}
