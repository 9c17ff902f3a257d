package domain

import "errors"

var (
	// ErrInvalidDifficulty is returned when a difficulty is not easy, medium or hard.
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	// ErrInvalidQuestionCount is returned when a game is started with no questions.
	ErrInvalidQuestionCount = errors.New("question count must be positive")
	// ErrNoActiveSession is returned when answering or ending a game that is not in progress.
	ErrNoActiveSession = errors.New("no active quiz session")
	// ErrSessionActive is returned when starting a game while another one is in progress.
	ErrSessionActive = errors.New("quiz session already active")
	// ErrSessionNotFound is returned when a session id is unknown.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrUnknownOption indicates the selected answer is not one of the offered options.
	ErrUnknownOption = errors.New("answer is not one of the options")
	// ErrGameNotFinished is returned when saving a score before the game ended.
	ErrGameNotFinished = errors.New("game not finished")
	// ErrScoreAlreadySaved is returned when a finished game is saved twice.
	ErrScoreAlreadySaved = errors.New("score already saved")
	// ErrInvalidPlayerName indicates an empty or overlong player name.
	ErrInvalidPlayerName = errors.New("invalid player name")
	// ErrPersistenceUnavailable wraps leaderboard backend failures.
	ErrPersistenceUnavailable = errors.New("leaderboard persistence unavailable")
	// ErrInsufficientOptions indicates a tier cannot produce four distinct options.
	ErrInsufficientOptions = errors.New("tier has fewer than 4 entries")
	// ErrCountryNotFound is returned when a flag symbol is not in the catalog.
	ErrCountryNotFound = errors.New("country not found")
	// ErrCatalogInvalid indicates malformed or duplicated catalog entries.
	ErrCatalogInvalid = errors.New("invalid country catalog")
)
