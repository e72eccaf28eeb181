package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tamaslaszlototh/parking-management-system/internal/app"
	"github.com/tamaslaszlototh/parking-management-system/internal/domain"
)

// SpotService is the minimal interface needed for the spot admin endpoints.
type SpotService interface {
	Create(ctx context.Context, in app.CreateSpotInput) (domain.ParkingSpot, error)
	List(ctx context.Context) ([]domain.ParkingSpot, error)
	Deactivate(ctx context.Context, spotID string) (app.DeactivateResult, error)
}

// HandleSpots serves POST /spots and GET /spots.
func HandleSpots(svc SpotService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			spots, err := svc.List(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]spotResponse, 0, len(spots))
			for _, spot := range spots {
				resp = append(resp, toSpotResponse(spot))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			var req createSpotRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			spot, err := svc.Create(r.Context(), app.CreateSpotInput{
				Name:        req.Name,
				Description: req.Description,
				State:       domain.SpotState(req.State),
			})
			if err != nil {
				switch err {
				case domain.ErrInvalidSpotName:
					writeError(w, http.StatusBadRequest, codeInvalidSpotName, err.Error())
				case domain.ErrInvalidSpotDescription:
					writeError(w, http.StatusBadRequest, codeInvalidSpotDescription, err.Error())
				case domain.ErrInvalidSpotState:
					writeError(w, http.StatusBadRequest, codeInvalidSpotState, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(toSpotResponse(spot))
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleDeactivateSpot serves POST /spots/{id}/deactivate. The response
// carries the spot's remaining upcoming reservations so the caller can
// notify the affected users; they are not cancelled.
func HandleDeactivateSpot(svc SpotService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		spotID, ok := parseSpotActionPath(r.URL.Path, "deactivate")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		result, err := svc.Deactivate(r.Context(), spotID)
		if err != nil {
			switch err {
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrSpotNotFound:
				writeError(w, http.StatusNotFound, codeSpotNotFound, err.Error())
			case domain.ErrSpotAlreadyDeactivated:
				writeError(w, http.StatusConflict, codeSpotAlreadyDeactivated, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		resp := deactivateResponse{ReservationIDs: result.ReservationIDs}
		if result.LastReservedDate != nil {
			formatted := result.LastReservedDate.Format(dateLayout)
			resp.LastReservedDate = &formatted
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func parseSpotActionPath(path, action string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 || parts[0] != "spots" || parts[2] != action || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func toSpotResponse(spot domain.ParkingSpot) spotResponse {
	return spotResponse{
		ID:          spot.ID,
		Name:        spot.Name,
		Description: spot.Description,
		State:       string(spot.State),
		ManagerID:   spot.ManagerID,
		CreatedAt:   spot.CreatedAt,
	}
}

type createSpotRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	State       string `json:"state"`
}

type spotResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	State       string    `json:"state"`
	ManagerID   *string   `json:"manager_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type deactivateResponse struct {
	ReservationIDs   []string `json:"reservation_ids"`
	LastReservedDate *string  `json:"last_reserved_date,omitempty"`
}
