package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tamaslaszlototh/parking-management-system/internal/domain"
)

// AssignmentService is the minimal interface needed for the dedicated-spot
// assignment endpoints.
type AssignmentService interface {
	Assign(ctx context.Context, managerID, spotID string) error
	Remove(ctx context.Context, spotID string) error
}

// HandleAssignment serves POST and DELETE /spots/{id}/assignment.
func HandleAssignment(svc AssignmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spotID, ok := parseSpotActionPath(r.URL.Path, "assignment")
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodPost:
			var req assignRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			if req.ManagerID == "" {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "manager_id is required")
				return
			}

			if err := svc.Assign(r.Context(), req.ManagerID, spotID); err != nil {
				writeAssignmentError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		case http.MethodDelete:
			if err := svc.Remove(r.Context(), spotID); err != nil {
				writeAssignmentError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

func writeAssignmentError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrSpotNotFound:
		writeError(w, http.StatusNotFound, codeSpotNotFound, err.Error())
	case domain.ErrSpotNotDedicated:
		writeError(w, http.StatusConflict, codeSpotNotDedicated, err.Error())
	case domain.ErrSpotAlreadyAssigned:
		writeError(w, http.StatusConflict, codeSpotAlreadyAssigned, err.Error())
	case domain.ErrManagerNotFound:
		writeError(w, http.StatusNotFound, codeManagerNotFound, err.Error())
	case domain.ErrManagerAlreadyAssigned:
		writeError(w, http.StatusConflict, codeManagerAlreadyAssigned, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

type assignRequest struct {
	ManagerID string `json:"manager_id"`
}
