package exit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/billing"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/engine/pricing"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/middlewarectx"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/response"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
	stationnement "github.com/christopherDEPASQUAL/parking-sub000/internal/services/stationnement"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Exit(ctx context.Context, id int, username, role string) (*billing.Result, error) {
	args := m.Called(id, username, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Result), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRequest(id string, username, role any) *http.Request {
	req := httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/stationnements/%s/exit", id), nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if username != nil {
		ctx = context.WithValue(ctx, middlewarectx.User, username)
	}
	if role != nil {
		ctx = context.WithValue(ctx, middlewarectx.Role, role)
	}
	return req.WithContext(ctx)
}

func TestHandler_Exit(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		username       any
		role           any
		setupMock      func(m *ServiceMock)
		expectedStatus int
	}{
		{
			name:     "успешный выезд со счётом",
			id:       "7",
			username: "alice",
			role:     models.RoleUser,
			setupMock: func(m *ServiceMock) {
				m.On("Exit", 7, "alice", models.RoleUser).
					Return(&billing.Result{
						BillableMinutes: 45,
						OverstayMinutes: 15,
						Amount:          pricing.NewMoney(2280, "EUR"),
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:     "стоянка другого пользователя",
			id:       "7",
			username: "bob",
			role:     models.RoleUser,
			setupMock: func(m *ServiceMock) {
				m.On("Exit", 7, "bob", models.RoleUser).
					Return(nil, stationnement.ErrNotStationnementUser)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:     "стоянка уже закрыта",
			id:       "7",
			username: "alice",
			role:     models.RoleUser,
			setupMock: func(m *ServiceMock) {
				m.On("Exit", 7, "alice", models.RoleUser).
					Return(nil, stationnement.ErrAlreadyClosed)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:     "стоянка не найдена",
			id:       "99",
			username: "alice",
			role:     models.RoleUser,
			setupMock: func(m *ServiceMock) {
				m.On("Exit", 99, "alice", models.RoleUser).
					Return(nil, fmt.Errorf("storage.ReadStationnement: %w", sql.ErrNoRows))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "некорректный id",
			id:             "abc",
			username:       "alice",
			role:           models.RoleUser,
			setupMock:      func(m *ServiceMock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "нет пользователя в контексте",
			id:             "7",
			username:       nil,
			role:           nil,
			setupMock:      func(m *ServiceMock) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			tt.setupMock(serviceMock)
			handler := New(newNoopLogger(), serviceMock)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest(tt.id, tt.username, tt.role))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			serviceMock.AssertExpectations(t)
		})
	}
}

func TestHandler_Exit_Body(t *testing.T) {
	serviceMock := new(ServiceMock)
	serviceMock.On("Exit", 7, "alice", models.RoleUser).
		Return(&billing.Result{
			BillableMinutes: 45,
			OverstayMinutes: 15,
			Amount:          pricing.NewMoney(2280, "EUR"),
		}, nil)
	handler := New(newNoopLogger(), serviceMock)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newRequest("7", "alice", models.RoleUser))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp response.OKResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, response.StatusOK, resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(45), data["billable_minutes"])
	assert.Equal(t, float64(15), data["overstay_minutes"])
	assert.Equal(t, float64(2280), data["amount_cents"])
	assert.Equal(t, "EUR", data["currency"])
}
