package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/carfleet-billing/internal/domain/car"
	"github.com/carfleet-billing/internal/domain/deposit"
	"github.com/carfleet-billing/internal/domain/money"
	"github.com/carfleet-billing/internal/domain/rental"
	"github.com/carfleet-billing/internal/rental_api/middleware"
	"github.com/carfleet-billing/internal/rental_api/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RentalHandler handles HTTP requests for rental operations
type RentalHandler struct {
	rentalService     service.RentalService
	settlementService service.SettlementService
	auditService      service.AuditService
	logger            *slog.Logger
}

// NewRentalHandler creates a new rental handler
func NewRentalHandler(
	logger *slog.Logger,
	rentalService service.RentalService,
	settlementService service.SettlementService,
	auditService service.AuditService,
) *RentalHandler {
	return &RentalHandler{
		rentalService:     rentalService,
		settlementService: settlementService,
		auditService:      auditService,
		logger:            logger,
	}
}

// Create handles opening a new rental against an available car
func (h *RentalHandler) Create(c *gin.Context) {
	var req CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	issueDate, err := time.Parse(dateLayout, req.IssueDate)
	if err != nil {
		RespondBadRequest(c, "Invalid issue_date, expected YYYY-MM-DD")
		return
	}
	expectedReturnDate, err := time.Parse(dateLayout, req.ExpectedReturnDate)
	if err != nil {
		RespondBadRequest(c, "Invalid expected_return_date, expected YYYY-MM-DD")
		return
	}
	depositAmount, err := money.Parse(req.DepositAmount)
	if err != nil {
		RespondBadRequest(c, "Invalid deposit_amount")
		return
	}

	params := service.CreateRentalParams{
		CustomerID:         uuid.MustParse(req.CustomerID),
		CarID:              uuid.MustParse(req.CarID),
		IssueDate:          issueDate,
		ExpectedReturnDate: expectedReturnDate,
		DepositAmount:      depositAmount,
		RequestID:          middleware.GetRequestID(c),
	}

	agreement, err := h.rentalService.CreateRental(c.Request.Context(), params)
	if err != nil {
		h.respondRentalError(c, err, "Failed to create rental")
		return
	}

	RespondCreated(c, mapRentalToResponse(agreement))
}

// SettleReturn handles the return of a rented car and settles the rental
func (h *RentalHandler) SettleReturn(c *gin.Context) {
	id, ok := h.rentalID(c)
	if !ok {
		return
	}

	var req SettleReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	params := service.SettleReturnParams{
		RentalID:     id,
		BadCondition: req.BadCondition,
		RequestID:    middleware.GetRequestID(c),
	}
	if req.ActualReturnDate != "" {
		returnDate, err := time.Parse(dateLayout, req.ActualReturnDate)
		if err != nil {
			RespondBadRequest(c, "Invalid actual_return_date, expected YYYY-MM-DD")
			return
		}
		params.ActualReturnDate = &returnDate
	}

	inv, err := h.settlementService.SettleReturn(c.Request.Context(), params)
	if err != nil {
		h.respondRentalError(c, err, "Failed to settle return")
		return
	}

	RespondOK(c, mapInvoiceToResponse(inv))
}

// Cancel handles cancellation of a rental that was never activated
func (h *RentalHandler) Cancel(c *gin.Context) {
	id, ok := h.rentalID(c)
	if !ok {
		return
	}

	if err := h.rentalService.CancelRental(c.Request.Context(), id); err != nil {
		h.respondRentalError(c, err, "Failed to cancel rental")
		return
	}

	RespondOK(c, gin.H{"id": id.String(), "status": string(rental.StatusCancelled)})
}

// GetByID retrieves a rental agreement by its ID
func (h *RentalHandler) GetByID(c *gin.Context) {
	id, ok := h.rentalID(c)
	if !ok {
		return
	}

	agreement, err := h.rentalService.GetRental(c.Request.Context(), id)
	if err != nil {
		h.respondRentalError(c, err, "Failed to get rental")
		return
	}

	RespondOK(c, mapRentalToResponse(agreement))
}

// ListPayments retrieves the payment ledger for a rental
func (h *RentalHandler) ListPayments(c *gin.Context) {
	id, ok := h.rentalID(c)
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}
	offset := (pagination.Page - 1) * pagination.PerPage

	payments, err := h.rentalService.ListPayments(c.Request.Context(), id, pagination.PerPage, offset)
	if err != nil {
		h.respondRentalError(c, err, "Failed to list payments")
		return
	}

	response := PaymentListResponse{Payments: make([]PaymentResponse, 0, len(payments))}
	for _, txn := range payments {
		response.Payments = append(response.Payments, mapPaymentToResponse(txn))
	}
	RespondOK(c, response)
}

// GetAuditTrail retrieves the projected audit trail for a rental
func (h *RentalHandler) GetAuditTrail(c *gin.Context) {
	id, ok := h.rentalID(c)
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}
	offset := (pagination.Page - 1) * pagination.PerPage

	entries, total, err := h.auditService.GetAuditTrail(c.Request.Context(), id, pagination.PerPage, offset)
	if err != nil {
		h.logger.Error("Failed to get audit trail", "rental_id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	response := AuditTrailResponse{Entries: make([]AuditEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		response.Entries = append(response.Entries, mapAuditEntryToResponse(entry))
	}
	RespondWithPaginatedData(c, http.StatusOK, response, pagination.Page, pagination.PerPage, int(total))
}

func (h *RentalHandler) rentalID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid rental ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid rental ID")
		return uuid.Nil, false
	}
	return id, true
}

// respondRentalError maps domain errors to HTTP status codes
func (h *RentalHandler) respondRentalError(c *gin.Context, err error, logMessage string) {
	var (
		transitionErr    rental.ErrIllegalTransition
		dateErr          rental.ErrInvalidDate
		rentalNotFound   rental.ErrRentalNotFound
		carNotFound      car.ErrCarNotFound
		carUnavailable   car.ErrCarUnavailable
		depositAmountErr deposit.ErrInvalidAmount
		depositNotFound  deposit.ErrDepositNotFound
	)
	switch {
	case errors.As(err, &transitionErr):
		RespondConflict(c, transitionErr.Error())
	case errors.As(err, &carUnavailable):
		RespondConflict(c, carUnavailable.Error())
	case errors.As(err, &dateErr):
		RespondBadRequest(c, dateErr.Error())
	case errors.As(err, &depositAmountErr):
		RespondBadRequest(c, depositAmountErr.Error())
	case errors.As(err, &rentalNotFound):
		RespondNotFound(c, "Rental not found")
	case errors.As(err, &carNotFound):
		RespondNotFound(c, "Car not found")
	case errors.As(err, &depositNotFound):
		RespondNotFound(c, "Deposit not found")
	default:
		h.logger.Error(logMessage, "error", err)
		RespondInternalError(c)
	}
}
