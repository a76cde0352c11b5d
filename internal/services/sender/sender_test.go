package services

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	libsmtp "github.com/christopherDEPASQUAL/parking-sub000/internal/lib/smtp"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

type TransportMock struct{ mock.Mock }

func (m *TransportMock) Connect() (libsmtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(libsmtp.Client), args.Error(1)
}
func (m *TransportMock) GetSMTPUser() string {
	return m.Called().String(0)
}

type ClientMock struct {
	mock.Mock
	written []byte
}

func (m *ClientMock) Mail(from string) error { return m.Called(from).Error(0) }
func (m *ClientMock) Rcpt(to string) error   { return m.Called(to).Error(0) }
func (m *ClientMock) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}
func (m *ClientMock) Quit() error  { return m.Called().Error(0) }
func (m *ClientMock) Close() error { return m.Called().Error(0) }

type writeCloserMock struct {
	data []byte
	err  error
}

func (w *writeCloserMock) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}
func (w *writeCloserMock) Close() error { return w.err }

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func testBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(models.AbonnementInfo{
		Email:       "driver@example.com",
		Username:    "driver",
		ParkingName: "Centre ville",
		Type:        "monthly",
		EndDate:     time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return body
}

func TestSenderService_SendExpiringAbonnement(t *testing.T) {
	transport := new(TransportMock)
	client := new(ClientMock)
	writer := &writeCloserMock{}

	transport.On("GetSMTPUser").Return("noreply@parking.local")
	transport.On("Connect").Return(libsmtp.Client(client), nil).Once()
	client.On("Mail", "noreply@parking.local").Return(nil).Once()
	client.On("Rcpt", "driver@example.com").Return(nil).Once()
	client.On("Data").Return(io.WriteCloser(writer), nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	svc := NewSenderService(newNoopLogger(), transport)
	err := svc.SendExpiringAbonnement(testBody(t))
	assert.NoError(t, err)

	assert.Contains(t, string(writer.data), "driver@example.com")
	assert.Contains(t, string(writer.data), "monthly")
	assert.Contains(t, string(writer.data), "Centre ville")
	assert.Contains(t, string(writer.data), "01-09-2025")

	transport.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestSenderService_SendExpiringAbonnement_BadPayload(t *testing.T) {
	svc := NewSenderService(newNoopLogger(), new(TransportMock))
	err := svc.SendExpiringAbonnement([]byte("{not json"))
	assert.Error(t, err)
}

func TestSenderService_SendExpiringAbonnement_ConnectError(t *testing.T) {
	transport := new(TransportMock)
	transport.On("GetSMTPUser").Return("noreply@parking.local")
	transport.On("Connect").Return(nil, errors.New("dial tcp: connection refused")).Once()

	svc := NewSenderService(newNoopLogger(), transport)
	err := svc.SendExpiringAbonnement(testBody(t))
	assert.Error(t, err)

	transport.AssertExpectations(t)
}
