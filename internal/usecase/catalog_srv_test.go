package usecase_test

import (
	"context"
	"testing"

	"bus-booking/internal/data/entity"
	"bus-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func busRequest(rows, cols int) *request.CreateBusRequest {
	return &request.CreateBusRequest{
		OperatorName:       "Neeta Tours",
		BusNumber:          "KA01AB4321",
		BusType:            "Volvo",
		RegistrationNumber: "KA01AB4321",
		LayoutRows:         rows,
		LayoutColumns:      cols,
		Amenities:          []string{"WiFi", "AC"},
		WindowPriceDelta:   50,
		AislePriceDelta:    20,
	}
}

func TestCreateBus_GeneratesSeatLayout(t *testing.T) {
	env := newTestEnv()

	bus, err := env.service.Catalog.CreateBus(context.Background(), busRequest(10, 5))

	require.NoError(t, err)
	assert.Equal(t, 50, bus.TotalSeats)

	seats, _ := env.seats.FindByBusID(context.Background(), uuid.MustParse(bus.ID))
	require.Len(t, seats, 50)

	// 5 columns: 1 and 5 window, 2 and 3 flank the walkway, 4 is middle
	typesByColumn := map[int]entity.SeatType{}
	deltasByColumn := map[int]float64{}
	for _, seat := range seats {
		typesByColumn[seat.SeatColumn] = seat.SeatType
		deltasByColumn[seat.SeatColumn] = seat.PriceDelta
	}
	assert.Equal(t, entity.SeatTypeWindow, typesByColumn[1])
	assert.Equal(t, entity.SeatTypeAisle, typesByColumn[2])
	assert.Equal(t, entity.SeatTypeAisle, typesByColumn[3])
	assert.Equal(t, entity.SeatTypeMiddle, typesByColumn[4])
	assert.Equal(t, entity.SeatTypeWindow, typesByColumn[5])

	assert.Equal(t, 50.0, deltasByColumn[1])
	assert.Equal(t, 20.0, deltasByColumn[2])
	assert.Equal(t, 0.0, deltasByColumn[4])

	// seat numbers run by row letter
	numbers := map[string]bool{}
	for _, seat := range seats {
		numbers[seat.SeatNumber] = true
	}
	assert.True(t, numbers["A1"])
	assert.True(t, numbers["J5"])
}

func TestCreateBus_RejectsOversizedLayout(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.Catalog.CreateBus(context.Background(), busRequest(13, 5))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 60 seats")
}

func TestCreateBus_RejectsDuplicateBusNumber(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.Catalog.CreateBus(context.Background(), busRequest(8, 4))
	require.NoError(t, err)

	_, err = env.service.Catalog.CreateBus(context.Background(), busRequest(8, 4))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestUpdateBus_PartialUpdate(t *testing.T) {
	env := newTestEnv()

	bus, err := env.service.Catalog.CreateBus(context.Background(), busRequest(8, 4))
	require.NoError(t, err)

	name := "Neeta Tours Deluxe"
	inactive := false
	updated, err := env.service.Catalog.UpdateBus(context.Background(), bus.ID, &request.UpdateBusRequest{
		OperatorName: &name,
		IsActive:     &inactive,
	})

	require.NoError(t, err)
	assert.Equal(t, "Neeta Tours Deluxe", updated.OperatorName)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Volvo", updated.BusType, "untouched fields keep their values")
}

func TestCreateRoute_DefaultsToOrdinary(t *testing.T) {
	env := newTestEnv()

	route, err := env.service.Catalog.CreateRoute(context.Background(), &request.CreateRouteRequest{
		FromCity:         "Delhi",
		FromState:        "Delhi",
		ToCity:           "Jaipur",
		ToState:          "Rajasthan",
		DistanceKM:       280,
		EstimatedMinutes: 330,
	})

	require.NoError(t, err)
	assert.Equal(t, "Ordinary", route.RouteType)
}
