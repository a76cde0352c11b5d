package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/pricing"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/schedule"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateReservation(ctx context.Context, reservation models.Reservation) (int, error) {
	args := m.Called(ctx, reservation)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadReservation(ctx context.Context, id int) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}
func (m *RepoMock) ListReservationsByUser(ctx context.Context, username string, limit, offset int) ([]*models.Reservation, error) {
	args := m.Called(ctx, username, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *RepoMock) ListAllReservations(ctx context.Context, limit, offset int) ([]*models.Reservation, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}
func (m *RepoMock) UpdateReservationStatus(ctx context.Context, id int, status string) (int, error) {
	args := m.Called(ctx, id, status)
	return args.Int(0), args.Error(1)
}

type ParkingProviderMock struct{ mock.Mock }

func (m *ParkingProviderMock) Read(ctx context.Context, id int) (*models.Parking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Parking), args.Error(1)
}
func (m *ParkingProviderMock) Availability(ctx context.Context, id int, at time.Time) (int, error) {
	args := m.Called(ctx, id, at)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

// Парковка в UTC, открытая по будням с 08:00 до 19:00.
func weekdayParking(t *testing.T) *models.Parking {
	t.Helper()
	interval, err := schedule.NewInterval("08:00", "19:00")
	assert.NoError(t, err)
	opening, err := schedule.NewOpeningSchedule(map[int][]schedule.Interval{
		1: {interval}, 2: {interval}, 3: {interval}, 4: {interval}, 5: {interval},
	})
	assert.NoError(t, err)
	plan, err := pricing.NewPlan(pricing.StepMinutes, nil, 50, 2000, nil, "EUR")
	assert.NoError(t, err)
	return &models.Parking{
		ID:            1,
		OwnerUsername: "owner1",
		Name:          "Centre ville",
		Capacity:      10,
		Timezone:      "UTC",
		Opening:       opening,
		Plan:          plan,
	}
}

func TestReservationService_Create(t *testing.T) {
	parking := weekdayParking(t)
	// Понедельник 2 июня 2025.
	start := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	tests := []struct {
		name       string
		req        models.DummyReservation
		setupMocks func(r *RepoMock, p *ParkingProviderMock)
		wantID     int
		wantErr    error
	}{
		{
			name: "success create",
			req: models.DummyReservation{
				ParkingID: 1,
				StartDate: start.Format(time.RFC3339),
				EndDate:   end.Format(time.RFC3339),
			},
			setupMocks: func(r *RepoMock, p *ParkingProviderMock) {
				p.On("Read", mock.Anything, 1).Return(parking, nil).Once()
				p.On("Availability", mock.Anything, 1, start).Return(3, nil).Once()
				r.On("CreateReservation", mock.Anything, mock.MatchedBy(func(res models.Reservation) bool {
					return res.ParkingID == 1 &&
						res.Username == "driver" &&
						res.Status == models.ReservationPending
				})).Return(42, nil).Once()
			},
			wantID: 42,
		},
		{
			name: "reservation until closing time allowed",
			req: models.DummyReservation{
				ParkingID: 1,
				StartDate: start.Format(time.RFC3339),
				EndDate:   time.Date(2025, 6, 2, 19, 0, 0, 0, time.UTC).Format(time.RFC3339),
			},
			setupMocks: func(r *RepoMock, p *ParkingProviderMock) {
				p.On("Read", mock.Anything, 1).Return(parking, nil).Once()
				p.On("Availability", mock.Anything, 1, start).Return(1, nil).Once()
				r.On("CreateReservation", mock.Anything, mock.Anything).Return(43, nil).Once()
			},
			wantID: 43,
		},
		{
			name: "parking closed",
			req: models.DummyReservation{
				ParkingID: 1,
				// Воскресенье.
				StartDate: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC).Format(time.RFC3339),
				EndDate:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Format(time.RFC3339),
			},
			setupMocks: func(_ *RepoMock, p *ParkingProviderMock) {
				p.On("Read", mock.Anything, 1).Return(parking, nil).Once()
			},
			wantErr: ErrParkingClosed,
		},
		{
			name: "no free spots",
			req: models.DummyReservation{
				ParkingID: 1,
				StartDate: start.Format(time.RFC3339),
				EndDate:   end.Format(time.RFC3339),
			},
			setupMocks: func(_ *RepoMock, p *ParkingProviderMock) {
				p.On("Read", mock.Anything, 1).Return(parking, nil).Once()
				p.On("Availability", mock.Anything, 1, start).Return(0, nil).Once()
			},
			wantErr: ErrNoFreeSpots,
		},
		{
			name: "end before start",
			req: models.DummyReservation{
				ParkingID: 1,
				StartDate: end.Format(time.RFC3339),
				EndDate:   start.Format(time.RFC3339),
			},
			setupMocks: func(_ *RepoMock, _ *ParkingProviderMock) {},
			wantErr:    errors.New("end date must be after start date"),
		},
		{
			name: "invalid date format",
			req: models.DummyReservation{
				ParkingID: 1,
				StartDate: "02-06-2025",
				EndDate:   end.Format(time.RFC3339),
			},
			setupMocks: func(_ *RepoMock, _ *ParkingProviderMock) {},
			wantErr:    errors.New("invalid start date"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			parkings := new(ParkingProviderMock)
			svc := NewReservationService(repo, parkings, newNoopLogger())

			tt.setupMocks(repo, parkings)

			got, err := svc.Create(context.Background(), "driver", tt.req)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, got)
			}

			repo.AssertExpectations(t)
			parkings.AssertExpectations(t)
		})
	}
}

func TestReservationService_Cancel(t *testing.T) {
	pending := &models.Reservation{ID: 5, ParkingID: 1, Username: "driver", Status: models.ReservationPending}
	completed := &models.Reservation{ID: 6, ParkingID: 1, Username: "driver", Status: models.ReservationCompleted}

	tests := []struct {
		name       string
		id         int
		username   string
		role       string
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name:     "user cancels own reservation",
			id:       5,
			username: "driver",
			role:     models.RoleUser,
			setupMocks: func(r *RepoMock) {
				r.On("ReadReservation", mock.Anything, 5).Return(pending, nil).Once()
				r.On("UpdateReservationStatus", mock.Anything, 5, models.ReservationCancelled).Return(1, nil).Once()
			},
		},
		{
			name:     "admin cancels any reservation",
			id:       5,
			username: "admin",
			role:     models.RoleAdmin,
			setupMocks: func(r *RepoMock) {
				r.On("ReadReservation", mock.Anything, 5).Return(pending, nil).Once()
				r.On("UpdateReservationStatus", mock.Anything, 5, models.ReservationCancelled).Return(1, nil).Once()
			},
		},
		{
			name:     "foreign reservation rejected",
			id:       5,
			username: "intruder",
			role:     models.RoleUser,
			setupMocks: func(r *RepoMock) {
				r.On("ReadReservation", mock.Anything, 5).Return(pending, nil).Once()
			},
			wantErr: ErrNotReservationUser,
		},
		{
			name:     "terminal status rejected",
			id:       6,
			username: "driver",
			role:     models.RoleUser,
			setupMocks: func(r *RepoMock) {
				r.On("ReadReservation", mock.Anything, 6).Return(completed, nil).Once()
			},
			wantErr: ErrAlreadyFinalized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := NewReservationService(repo, new(ParkingProviderMock), newNoopLogger())

			tt.setupMocks(repo)

			_, err := svc.Cancel(context.Background(), tt.id, tt.username, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestReservationService_Confirm(t *testing.T) {
	parking := weekdayParking(t)
	pending := &models.Reservation{ID: 5, ParkingID: 1, Username: "driver", Status: models.ReservationPending}
	confirmed := &models.Reservation{ID: 7, ParkingID: 1, Username: "driver", Status: models.ReservationConfirmed}

	tests := []struct {
		name       string
		id         int
		username   string
		role       string
		setupMocks func(r *RepoMock, p *ParkingProviderMock)
		wantErr    error
	}{
		{
			name:     "parking owner confirms",
			id:       5,
			username: "owner1",
			role:     models.RoleOwner,
			setupMocks: func(r *RepoMock, p *ParkingProviderMock) {
				r.On("ReadReservation", mock.Anything, 5).Return(pending, nil).Once()
				p.On("Read", mock.Anything, 1).Return(parking, nil).Once()
				r.On("UpdateReservationStatus", mock.Anything, 5, models.ReservationConfirmed).Return(1, nil).Once()
			},
		},
		{
			name:     "foreign owner rejected",
			id:       5,
			username: "owner2",
			role:     models.RoleOwner,
			setupMocks: func(r *RepoMock, p *ParkingProviderMock) {
				r.On("ReadReservation", mock.Anything, 5).Return(pending, nil).Once()
				p.On("Read", mock.Anything, 1).Return(parking, nil).Once()
			},
			wantErr: ErrNotReservationUser,
		},
		{
			name:     "already confirmed rejected",
			id:       7,
			username: "admin",
			role:     models.RoleAdmin,
			setupMocks: func(r *RepoMock, _ *ParkingProviderMock) {
				r.On("ReadReservation", mock.Anything, 7).Return(confirmed, nil).Once()
			},
			wantErr: ErrAlreadyFinalized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			parkings := new(ParkingProviderMock)
			svc := NewReservationService(repo, parkings, newNoopLogger())

			tt.setupMocks(repo, parkings)

			_, err := svc.Confirm(context.Background(), tt.id, tt.username, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			parkings.AssertExpectations(t)
		})
	}
}

func TestReservationService_List(t *testing.T) {
	reservations := []*models.Reservation{{ID: 1}, {ID: 2}}

	tests := []struct {
		name       string
		username   string
		role       string
		setupMocks func(r *RepoMock)
	}{
		{
			name:     "admin lists all",
			username: "admin",
			role:     models.RoleAdmin,
			setupMocks: func(r *RepoMock) {
				r.On("ListAllReservations", mock.Anything, 10, 0).Return(reservations, nil).Once()
			},
		},
		{
			name:     "user lists own",
			username: "driver",
			role:     models.RoleUser,
			setupMocks: func(r *RepoMock) {
				r.On("ListReservationsByUser", mock.Anything, "driver", 10, 0).Return(reservations, nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := NewReservationService(repo, new(ParkingProviderMock), newNoopLogger())

			tt.setupMocks(repo)

			got, err := svc.List(context.Background(), tt.username, tt.role, 10, 0)
			assert.NoError(t, err)
			assert.Len(t, got, 2)

			repo.AssertExpectations(t)
		})
	}
}
