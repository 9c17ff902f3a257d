package redis

import (
	"strconv"
	"strings"

	"flagquiz/internal/domain"
)

const keyPrefix = "flagquiz"

func cacheKey(parts ...string) string {
	return strings.Join(append([]string{keyPrefix}, parts...), ":")
}

func sessionKey(sessionID string) string {
	return cacheKey("session", sessionID)
}

func topKey(limit int, difficulty domain.Difficulty) string {
	tier := string(difficulty)
	if tier == "" {
		tier = "all"
	}
	return cacheKey("leaderboard", "top", tier, strconv.Itoa(limit))
}

func aggregateKey() string {
	return cacheKey("leaderboard", "all")
}

// versionKey is bumped on every insert; cached reads embed the version they saw.
func versionKey() string {
	return cacheKey("leaderboard", "version")
}
