package handler

import (
	"time"

	"github.com/carfleet-billing/internal/domain/audit"
	"github.com/carfleet-billing/internal/domain/car"
	"github.com/carfleet-billing/internal/domain/invoice"
	"github.com/carfleet-billing/internal/domain/payment"
	"github.com/carfleet-billing/internal/domain/rental"
)

// dateLayout is the wire format for rental dates
const dateLayout = "2006-01-02"

// CreateRentalRequest represents a request to open a new rental
type CreateRentalRequest struct {
	CustomerID         string `json:"customer_id" binding:"required,uuid"`
	CarID              string `json:"car_id" binding:"required,uuid"`
	IssueDate          string `json:"issue_date" binding:"required"`
	ExpectedReturnDate string `json:"expected_return_date" binding:"required"`
	DepositAmount      string `json:"deposit_amount" binding:"required"`
}

// SettleReturnRequest represents a request to settle a car return
type SettleReturnRequest struct {
	ActualReturnDate string `json:"actual_return_date,omitempty"`
	BadCondition     bool   `json:"bad_condition,omitempty"`
}

// RentalResponse represents a rental agreement in API responses
type RentalResponse struct {
	ID                 string `json:"id"`
	CustomerID         string `json:"customer_id"`
	CarID              string `json:"car_id"`
	IssueDate          string `json:"issue_date"`
	ExpectedReturnDate string `json:"expected_return_date"`
	ActualReturnDate   string `json:"actual_return_date,omitempty"`
	Status             string `json:"status"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

// LineItemResponse represents a single invoice line in API responses
type LineItemResponse struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// InvoiceResponse represents a settlement invoice in API responses
type InvoiceResponse struct {
	ID       string             `json:"id"`
	RentalID string             `json:"rental_id"`
	Items    []LineItemResponse `json:"items"`
	Total    string             `json:"total"`
	IssuedAt string             `json:"issued_at"`
}

// PaymentResponse represents a payment transaction in API responses
type PaymentResponse struct {
	ID        string `json:"id"`
	RentalID  string `json:"rental_id"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}

// PaymentListResponse represents a list of payments in API responses
type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

// CarResponse represents a fleet car in API responses
type CarResponse struct {
	ID             string `json:"id"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Class          string `json:"class"`
	Year           int    `json:"year"`
	BaseDailyPrice string `json:"base_daily_price"`
	Status         string `json:"status"`
}

// CarListResponse represents a list of cars in API responses
type CarListResponse struct {
	Cars []CarResponse `json:"cars"`
}

// AuditEntryResponse represents a projected audit entry in API responses
type AuditEntryResponse struct {
	EventID       string `json:"event_id"`
	Kind          string `json:"kind"`
	RentalID      string `json:"rental_id"`
	CarID         string `json:"car_id"`
	EntryType     string `json:"entry_type"`
	Amount        string `json:"amount"`
	Note          string `json:"note,omitempty"`
	DepositStatus string `json:"deposit_status,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}

// AuditTrailResponse represents a rental's audit trail in API responses
type AuditTrailResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

func mapRentalToResponse(a *rental.Agreement) RentalResponse {
	resp := RentalResponse{
		ID:                 a.ID.String(),
		CustomerID:         a.CustomerID.String(),
		CarID:              a.CarID.String(),
		IssueDate:          a.IssueDate.Format(dateLayout),
		ExpectedReturnDate: a.ExpectedReturnDate.Format(dateLayout),
		Status:             string(a.Status),
		CreatedAt:          a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          a.UpdatedAt.Format(time.RFC3339),
	}
	if a.ActualReturnDate != nil {
		resp.ActualReturnDate = a.ActualReturnDate.Format(dateLayout)
	}
	return resp
}

func mapInvoiceToResponse(inv invoice.Invoice) InvoiceResponse {
	items := inv.Items()
	respItems := make([]LineItemResponse, 0, len(items))
	for _, item := range items {
		respItems = append(respItems, LineItemResponse{
			Description: item.Description,
			Amount:      item.Amount.String(),
		})
	}
	return InvoiceResponse{
		ID:       inv.ID().String(),
		RentalID: inv.RentalID().String(),
		Items:    respItems,
		Total:    inv.Total().String(),
		IssuedAt: inv.IssuedAt().Format(time.RFC3339),
	}
}

func mapPaymentToResponse(txn *payment.Transaction) PaymentResponse {
	return PaymentResponse{
		ID:        txn.ID.String(),
		RentalID:  txn.RentalID.String(),
		Type:      string(txn.Type),
		Amount:    txn.Amount.String(),
		Note:      txn.Note,
		CreatedAt: txn.CreatedAt.Format(time.RFC3339),
	}
}

func mapCarToResponse(c *car.Car) CarResponse {
	return CarResponse{
		ID:             c.ID.String(),
		Brand:          c.Brand,
		Model:          c.Model,
		Class:          string(c.Class),
		Year:           c.Year,
		BaseDailyPrice: c.BaseDailyPrice.String(),
		Status:         string(c.Status),
	}
}

func mapAuditEntryToResponse(e *audit.Entry) AuditEntryResponse {
	return AuditEntryResponse{
		EventID:       e.EventID.String(),
		Kind:          string(e.Kind),
		RentalID:      e.RentalID.String(),
		CarID:         e.CarID.String(),
		EntryType:     e.EntryType,
		Amount:        e.Amount,
		Note:          e.Note,
		DepositStatus: e.DepositStatus,
		OccurredAt:    e.OccurredAt.Format(time.RFC3339),
	}
}
