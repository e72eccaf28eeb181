package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tamaslaszlototh/parking-management-system/internal/app"
	"github.com/tamaslaszlototh/parking-management-system/internal/clock"
	"github.com/tamaslaszlototh/parking-management-system/internal/domain"
)

type stubReservationService struct {
	reserveErr error
	listed     []domain.Reservation
	listErr    error
	gotInput   app.ReserveInput
}

func (s *stubReservationService) Reserve(_ context.Context, in app.ReserveInput) error {
	s.gotInput = in
	return s.reserveErr
}

func (s *stubReservationService) ListForDates(context.Context, []time.Time) ([]domain.Reservation, error) {
	return s.listed, s.listErr
}

func (s *stubReservationService) ListForUser(context.Context, string, bool) ([]domain.Reservation, error) {
	return s.listed, s.listErr
}

func TestHandleReservations_Post(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"user_id":"u1","dates":["2026-09-10","2026-09-11"]}`,
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "invalid json",
			body:           `{"user_id":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing user",
			body:           `{"dates":["2026-09-10"]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty dates",
			body:           `{"user_id":"u1","dates":[]}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "invalid_dates",
		},
		{
			name:           "duplicate dates",
			body:           `{"user_id":"u1","dates":["2026-09-10","2026-09-10"]}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "duplicate",
		},
		{
			name:           "past date",
			body:           `{"user_id":"u1","dates":["2026-08-31"]}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "past",
		},
		{
			name:           "beyond horizon",
			body:           `{"user_id":"u1","dates":["2027-10-01"]}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "horizon",
		},
		{
			name:           "user not found",
			body:           `{"user_id":"u1","dates":["2026-09-10"]}`,
			serviceErr:     domain.ErrUserNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "already reserved",
			body:           `{"user_id":"u1","dates":["2026-09-10"]}`,
			serviceErr:     &domain.AlreadyReservedError{Dates: []time.Time{time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)}},
			expectedStatus: http.StatusConflict,
			expectedSubstr: "already_reserved",
		},
		{
			name:           "no free spot",
			body:           `{"user_id":"u1","dates":["2026-09-10"]}`,
			serviceErr:     &domain.NoFreeSpotError{Dates: []time.Time{time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)}},
			expectedStatus: http.StatusConflict,
			expectedSubstr: "no_free_spot",
		},
		{
			name:           "storage conflict",
			body:           `{"user_id":"u1","dates":["2026-09-10"]}`,
			serviceErr:     domain.ErrReservationConflict,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "internal error",
			body:           `{"user_id":"u1","dates":["2026-09-10"]}`,
			serviceErr:     context.DeadlineExceeded,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &stubReservationService{reserveErr: tc.serviceErr}
			handler := HandleReservations(svc, clock.NewFixed(now), 365)

			req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tc.expectedStatus, rec.Code, rec.Body.String())
			}
			if tc.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tc.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %s", tc.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleReservations_Get(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := &stubReservationService{listed: []domain.Reservation{
		{ID: "r1", UserID: "u1", ParkingSpotID: "s1", Date: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)},
	}}
	handler := HandleReservations(svc, clock.NewFixed(now), 365)

	req := httptest.NewRequest(http.MethodGet, "/reservations?dates=2026-09-10,2026-09-11", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"date":"2026-09-10"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/reservations", nil)
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without dates, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/reservations?dates=nope", nil)
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", rec.Code)
	}
}

type stubCancelService struct {
	cancelled []time.Time
	err       error
}

func (s *stubCancelService) Cancel(context.Context, app.CancelInput) ([]time.Time, error) {
	return s.cancelled, s.err
}

func TestHandleCancelReservations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"user_id":"u1","reservation_ids":["r1","r2"]}`,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"cancelled_dates":["2026-09-10"]`,
		},
		{
			name:           "invalid json",
			body:           `{"user_id":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing ids",
			body:           `{"user_id":"u1","reservation_ids":[]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "user not found",
			body:           `{"user_id":"u1","reservation_ids":["r1"]}`,
			serviceErr:     domain.ErrUserNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "reservation not found",
			body:           `{"user_id":"u1","reservation_ids":["r1"]}`,
			serviceErr:     domain.ErrReservationNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "not owner",
			body:           `{"user_id":"u1","reservation_ids":["r1"]}`,
			serviceErr:     domain.ErrNotReservationOwner,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &stubCancelService{
				cancelled: []time.Time{time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)},
				err:       tc.serviceErr,
			}
			handler := HandleCancelReservations(svc)

			req := httptest.NewRequest(http.MethodPost, "/reservations/cancel", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tc.expectedStatus, rec.Code, rec.Body.String())
			}
			if tc.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tc.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %s", tc.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleUserReservations(t *testing.T) {
	t.Parallel()

	svc := &stubReservationService{listed: []domain.Reservation{
		{ID: "r1", UserID: "u1", ParkingSpotID: "s1", Date: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)},
	}}
	handler := HandleUserReservations(svc)

	req := httptest.NewRequest(http.MethodGet, "/users/u1/reservations", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/users//reservations", nil)
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty id, got %d", rec.Code)
	}

	missing := &stubReservationService{listErr: domain.ErrUserNotFound}
	handler = HandleUserReservations(missing)
	req = httptest.NewRequest(http.MethodGet, "/users/u2/reservations", nil)
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", rec.Code)
	}
}
