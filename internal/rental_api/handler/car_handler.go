package handler

import (
	"errors"
	"log/slog"

	"github.com/carfleet-billing/internal/domain/car"
	"github.com/carfleet-billing/internal/rental_api/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CarHandler handles HTTP requests for fleet operations
type CarHandler struct {
	fleetService service.FleetService
	logger       *slog.Logger
}

// NewCarHandler creates a new car handler
func NewCarHandler(logger *slog.Logger, fleetService service.FleetService) *CarHandler {
	return &CarHandler{
		fleetService: fleetService,
		logger:       logger,
	}
}

// GetByID retrieves a car by its ID, returning 404 if not found
func (h *CarHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid car ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid car ID")
		return
	}

	vehicle, err := h.fleetService.GetCar(c.Request.Context(), id)
	if err != nil {
		var notFoundErr car.ErrCarNotFound
		if errors.As(err, &notFoundErr) {
			RespondNotFound(c, "Car not found")
			return
		}
		h.logger.Error("Failed to get car", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapCarToResponse(vehicle))
}

// List retrieves cars from the fleet, newest first
func (h *CarHandler) List(c *gin.Context) {
	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}
	offset := (pagination.Page - 1) * pagination.PerPage

	cars, err := h.fleetService.ListCars(c.Request.Context(), pagination.PerPage, offset)
	if err != nil {
		h.logger.Error("Failed to list cars", "error", err)
		RespondInternalError(c)
		return
	}

	response := CarListResponse{Cars: make([]CarResponse, 0, len(cars))}
	for _, vehicle := range cars {
		response.Cars = append(response.Cars, mapCarToResponse(vehicle))
	}
	RespondOK(c, response)
}
