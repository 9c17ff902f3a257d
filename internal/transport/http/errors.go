package http

import (
	"errors"
	"net/http"

	"flagquiz/internal/domain"
)

// errorPayload is the body of REST errors and websocket error frames.
type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domain.ErrInvalidDifficulty, http.StatusBadRequest, "invalid_difficulty"},
	{domain.ErrInvalidQuestionCount, http.StatusBadRequest, "invalid_question_count"},
	{domain.ErrUnknownOption, http.StatusBadRequest, "unknown_option"},
	{domain.ErrInvalidPlayerName, http.StatusBadRequest, "invalid_player_name"},
	{domain.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},
	{domain.ErrCountryNotFound, http.StatusNotFound, "country_not_found"},
	{domain.ErrNoActiveSession, http.StatusConflict, "no_active_session"},
	{domain.ErrSessionActive, http.StatusConflict, "session_active"},
	{domain.ErrGameNotFinished, http.StatusConflict, "game_not_finished"},
	{domain.ErrScoreAlreadySaved, http.StatusConflict, "score_already_saved"},
	{domain.ErrPersistenceUnavailable, http.StatusServiceUnavailable, "persistence_unavailable"},
	{domain.ErrInsufficientOptions, http.StatusInternalServerError, "catalog_unavailable"},
	{domain.ErrCatalogInvalid, http.StatusInternalServerError, "catalog_unavailable"},
}

// classify maps an error to an HTTP status and a stable error code.
func classify(err error) (int, errorPayload) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, errorPayload{Code: m.code, Message: err.Error()}
		}
	}
	return http.StatusInternalServerError, errorPayload{Code: "internal", Message: "internal error"}
}
