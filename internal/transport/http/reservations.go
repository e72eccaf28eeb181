package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tamaslaszlototh/parking-management-system/internal/app"
	"github.com/tamaslaszlototh/parking-management-system/internal/clock"
	"github.com/tamaslaszlototh/parking-management-system/internal/domain"
)

const dateLayout = "2006-01-02"

// Reserver is the minimal interface needed to book reservations.
type Reserver interface {
	Reserve(ctx context.Context, in app.ReserveInput) error
}

// Canceller is the minimal interface needed to cancel reservations.
type Canceller interface {
	Cancel(ctx context.Context, in app.CancelInput) ([]time.Time, error)
}

// ReservationLister is the minimal interface needed to query reservations.
type ReservationLister interface {
	ListForDates(ctx context.Context, dates []time.Time) ([]domain.Reservation, error)
	ListForUser(ctx context.Context, userID string, includeExpired bool) ([]domain.Reservation, error)
}

// HandleReservations serves POST /reservations and GET /reservations.
// Request shape (empty list, duplicate dates, past dates, dates past the
// horizon) is rejected here; the allocation engine assumes clean input.
func HandleReservations(svc interface {
	Reserver
	ReservationLister
}, clk clock.Clock, horizonDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req reserveRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.UserID == "" {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "user_id is required")
				return
			}
			dates, err := parseDates(req.Dates, clk.Now(), horizonDays)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidDates, err.Error())
				return
			}

			err = svc.Reserve(r.Context(), app.ReserveInput{
				UserID:          req.UserID,
				Dates:           dates,
				PreferDedicated: req.PreferDedicated,
			})
			if err != nil {
				writeReserveError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		case http.MethodGet:
			raw := strings.Split(r.URL.Query().Get("dates"), ",")
			var dates []time.Time
			for _, s := range raw {
				s = strings.TrimSpace(s)
				if s == "" {
					continue
				}
				d, err := time.Parse(dateLayout, s)
				if err != nil {
					writeError(w, http.StatusBadRequest, codeInvalidDates, "invalid date: "+s)
					return
				}
				dates = append(dates, d)
			}
			if len(dates) == 0 {
				writeError(w, http.StatusBadRequest, codeInvalidDates, "dates query parameter is required")
				return
			}

			reservations, err := svc.ListForDates(r.Context(), dates)
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			writeReservations(w, http.StatusOK, reservations)
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleCancelReservations serves POST /reservations/cancel.
func HandleCancelReservations(svc Canceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req cancelRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.UserID == "" || len(req.ReservationIDs) == 0 {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "user_id and reservation_ids are required")
			return
		}

		cancelled, err := svc.Cancel(r.Context(), app.CancelInput{
			UserID:         req.UserID,
			ReservationIDs: req.ReservationIDs,
		})
		if err != nil {
			switch err {
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrUserNotFound:
				writeError(w, http.StatusNotFound, codeUserNotFound, err.Error())
			case domain.ErrReservationNotFound:
				writeError(w, http.StatusNotFound, codeReservationNotFound, err.Error())
			case domain.ErrNotReservationOwner:
				writeError(w, http.StatusForbidden, codeForbidden, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		resp := cancelResponse{CancelledDates: make([]string, 0, len(cancelled))}
		for _, d := range cancelled {
			resp.CancelledDates = append(resp.CancelledDates, d.Format(dateLayout))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleUserReservations serves GET /users/{id}/reservations.
func HandleUserReservations(svc ReservationLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		userID, ok := parseUserReservationsPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		includeExpired := r.URL.Query().Get("include_expired") == "true"

		reservations, err := svc.ListForUser(r.Context(), userID, includeExpired)
		if err != nil {
			switch err {
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrUserNotFound:
				writeError(w, http.StatusNotFound, codeUserNotFound, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}
		writeReservations(w, http.StatusOK, reservations)
	}
}

func writeReserveError(w http.ResponseWriter, err error) {
	var reserved *domain.AlreadyReservedError
	if errors.As(err, &reserved) {
		writeError(w, http.StatusConflict, codeAlreadyReserved, reserved.Error())
		return
	}
	var noFree *domain.NoFreeSpotError
	if errors.As(err, &noFree) {
		writeError(w, http.StatusConflict, codeNoFreeSpot, noFree.Error())
		return
	}

	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrUserNotFound:
		writeError(w, http.StatusNotFound, codeUserNotFound, err.Error())
	case domain.ErrReservationConflict:
		writeError(w, http.StatusConflict, codeReservationConflict, err.Error())
	case domain.ErrSpotNotFound:
		writeError(w, http.StatusNotFound, codeSpotNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func parseDates(raw []string, now time.Time, horizonDays int) ([]time.Time, error) {
	if len(raw) == 0 {
		return nil, errors.New("dates are required")
	}

	today := domain.Day(now)
	limit := today.AddDate(0, 0, horizonDays)
	seen := make(map[time.Time]struct{}, len(raw))
	dates := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, errors.New("invalid date: " + s)
		}
		day := domain.Day(parsed)
		if _, dup := seen[day]; dup {
			return nil, errors.New("duplicate date: " + s)
		}
		seen[day] = struct{}{}
		if day.Before(today) {
			return nil, errors.New("date in the past: " + s)
		}
		if day.After(limit) {
			return nil, errors.New("date beyond the booking horizon: " + s)
		}
		dates = append(dates, day)
	}
	return dates, nil
}

func parseUserReservationsPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "users" || parts[2] != "reservations" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func writeReservations(w http.ResponseWriter, status int, reservations []domain.Reservation) {
	resp := make([]reservationResponse, 0, len(reservations))
	for _, res := range reservations {
		resp = append(resp, reservationResponse{
			ID:            res.ID,
			UserID:        res.UserID,
			ParkingSpotID: res.ParkingSpotID,
			Date:          res.Date.Format(dateLayout),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

type reserveRequest struct {
	UserID          string   `json:"user_id"`
	Dates           []string `json:"dates"`
	PreferDedicated bool     `json:"prefer_dedicated"`
}

type cancelRequest struct {
	UserID         string   `json:"user_id"`
	ReservationIDs []string `json:"reservation_ids"`
}

type cancelResponse struct {
	CancelledDates []string `json:"cancelled_dates"`
}

type reservationResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	ParkingSpotID string `json:"parking_spot_id"`
	Date          string `json:"date"`
}
