package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/schedule"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

func mondaySlots(t *testing.T) schedule.RecurringSlotSet {
	t.Helper()
	set, err := schedule.NewRecurringSlotSet([]schedule.RecurringSlot{
		{StartDay: 1, EndDay: 1, StartTime: "00:00", EndTime: "24:00"},
	})
	require.NoError(t, err)
	return set
}

func TestFreeSpotsAt(t *testing.T) {
	// 2025-01-06 — понедельник.
	at := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	dayBefore := at.AddDate(0, 0, -1)
	dayAfter := at.AddDate(0, 0, 1)
	ended := at.Add(-time.Hour)

	slots := mondaySlots(t)

	reservations := []models.Reservation{
		{ID: 1, StartDate: dayBefore, EndDate: dayAfter, Status: models.ReservationConfirmed},
		{ID: 2, StartDate: dayBefore, EndDate: dayAfter, Status: models.ReservationPending},
		{ID: 3, StartDate: dayBefore, EndDate: dayAfter, Status: models.ReservationConfirmed},
		// Терминальный статус не занимает место.
		{ID: 4, StartDate: dayBefore, EndDate: dayAfter, Status: models.ReservationCancelled},
		// Диапазон не содержит момент.
		{ID: 5, StartDate: dayAfter, EndDate: dayAfter.AddDate(0, 0, 1), Status: models.ReservationConfirmed},
	}
	abonnements := []models.Abonnement{
		{ID: 1, StartDate: dayBefore, CounterMonths: 3, Slots: slots, Status: models.AbonnementActive},
		{ID: 2, StartDate: dayBefore, CounterMonths: 3, Slots: slots, Status: models.AbonnementActive},
		{ID: 3, StartDate: dayBefore, CounterMonths: 3, Slots: slots, Status: models.AbonnementCancelled},
	}
	stationnements := []models.Stationnement{
		{ID: 1, StartedAt: at.Add(-30 * time.Minute)},
		// Уже закрытая стоянка не занимает место.
		{ID: 2, StartedAt: at.Add(-3 * time.Hour), EndedAt: &ended},
	}

	got := FreeSpotsAt(10, at, time.UTC, reservations, abonnements, stationnements)
	assert.Equal(t, 4, got)
}

func TestFreeSpotsAtFloor(t *testing.T) {
	at := time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
	var reservations []models.Reservation
	for i := 0; i < 5; i++ {
		reservations = append(reservations, models.Reservation{
			ID:        i,
			StartDate: at.AddDate(0, 0, -1),
			EndDate:   at.AddDate(0, 0, 1),
			Status:    models.ReservationConfirmed,
		})
	}

	got := FreeSpotsAt(3, at, time.UTC, reservations, nil, nil)
	assert.Equal(t, 0, got)
}

func TestFreeSpotsAtEmpty(t *testing.T) {
	at := time.Now()
	assert.Equal(t, 7, FreeSpotsAt(7, at, time.UTC, nil, nil, nil))
}

func TestComputeAvailability(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		nRes     int
		nAbo     int
		nSta     int
		want     int
	}{
		{name: "plenty of room", capacity: 10, nRes: 3, nAbo: 2, nSta: 1, want: 4},
		{name: "exactly full", capacity: 6, nRes: 3, nAbo: 2, nSta: 1, want: 0},
		{name: "overbooked floors at zero", capacity: 2, nRes: 3, nAbo: 2, nSta: 1, want: 0},
		{name: "empty parking", capacity: 5, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeAvailability(tt.capacity, tt.nRes, tt.nAbo, tt.nSta))
		})
	}
}
