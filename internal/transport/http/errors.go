package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed       = "method_not_allowed"
	codeNotFound               = "not_found"
	codeInvalidRequestBody     = "invalid_request_body"
	codeInvalidID              = "invalid_id"
	codeInvalidDates           = "invalid_dates"
	codeInvalidSpotName        = "invalid_spot_name"
	codeInvalidSpotDescription = "invalid_spot_description"
	codeInvalidSpotState       = "invalid_spot_state"
	codeUserNotFound           = "user_not_found"
	codeManagerNotFound        = "manager_not_found"
	codeManagerAlreadyAssigned = "manager_already_assigned"
	codeSpotNotFound           = "spot_not_found"
	codeSpotNotDedicated       = "spot_not_dedicated"
	codeSpotAlreadyAssigned    = "spot_already_assigned"
	codeSpotAlreadyDeactivated = "spot_already_deactivated"
	codeReservationNotFound    = "reservation_not_found"
	codeReservationConflict    = "reservation_conflict"
	codeAlreadyReserved        = "already_reserved"
	codeNoFreeSpot             = "no_free_spot"
	codeForbidden              = "forbidden"
	codeInternalError          = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}
