package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carfleet-billing/internal/domain/car"
	"github.com/carfleet-billing/internal/domain/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFleetService struct {
	mock.Mock
}

func (m *MockFleetService) GetCar(ctx context.Context, id uuid.UUID) (*car.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*car.Car), args.Error(1)
}

func (m *MockFleetService) ListCars(ctx context.Context, limit, offset int) ([]*car.Car, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*car.Car), args.Error(1)
}

func TestCarHandler_GetByID(t *testing.T) {
	logger := newHandlerLogger()

	t.Run("Success", func(t *testing.T) {
		mockFleet := new(MockFleetService)
		handler := NewCarHandler(logger, mockFleet)

		vehicle := &car.Car{
			ID:             uuid.New(),
			Brand:          "Toyota",
			Model:          "Corolla",
			Class:          car.ClassEconomy,
			Year:           2024,
			BaseDailyPrice: money.MustParse("100.00"),
			Status:         car.StatusAvailable,
		}
		mockFleet.On("GetCar", mock.Anything, vehicle.ID).Return(vehicle, nil).Once()

		router := setupTestRouter()
		router.GET("/cars/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/cars/"+vehicle.ID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeData[CarResponse](t, rr.Body.Bytes())
		assert.Equal(t, "Toyota", resp.Brand)
		assert.Equal(t, "100.00", resp.BaseDailyPrice)
		assert.Equal(t, "AVAILABLE", resp.Status)
		mockFleet.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockFleet := new(MockFleetService)
		handler := NewCarHandler(logger, mockFleet)

		carID := uuid.New()
		mockFleet.On("GetCar", mock.Anything, carID).
			Return(nil, car.ErrCarNotFound{CarID: carID}).Once()

		router := setupTestRouter()
		router.GET("/cars/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/cars/"+carID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockFleet.AssertExpectations(t)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockFleet := new(MockFleetService)
		handler := NewCarHandler(logger, mockFleet)

		router := setupTestRouter()
		router.GET("/cars/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/cars/nope", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockFleet.AssertNotCalled(t, "GetCar", mock.Anything, mock.Anything)
	})
}

func TestCarHandler_List(t *testing.T) {
	logger := newHandlerLogger()

	t.Run("Success", func(t *testing.T) {
		mockFleet := new(MockFleetService)
		handler := NewCarHandler(logger, mockFleet)

		cars := []*car.Car{
			{ID: uuid.New(), Brand: "Skoda", Model: "Octavia", Class: car.ClassComfort, Year: 2023, BaseDailyPrice: money.MustParse("120.00"), Status: car.StatusAvailable},
			{ID: uuid.New(), Brand: "BMW", Model: "530i", Class: car.ClassPremium, Year: 2025, BaseDailyPrice: money.MustParse("250.00"), Status: car.StatusRented},
		}
		mockFleet.On("ListCars", mock.Anything, 10, 0).Return(cars, nil).Once()

		router := setupTestRouter()
		router.GET("/cars", handler.List)

		req, _ := http.NewRequest(http.MethodGet, "/cars", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeData[CarListResponse](t, rr.Body.Bytes())
		require.Len(t, resp.Cars, 2)
		assert.Equal(t, "Skoda", resp.Cars[0].Brand)
		mockFleet.AssertExpectations(t)
	})
}
