package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/SydAsim/Visaguardai-Upwork/internal/apperrors"
)

type errorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Error().Err(err).Msg("Failed to encode response body")
		}
	}
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, apperrors.HTTPStatus(err), errorEnvelope{
		Error: errorBody{
			Code:    apperrors.CodeOf(err),
			Message: apperrors.PublicMessage(err),
		},
	})
}
