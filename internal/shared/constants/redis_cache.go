package constants

import (
	"fmt"
	"time"
)

// Cache keys and TTLs for the studyhall service.
// Pattern: studyhall:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_SEAT_LIST          = 10 * time.Minute
	TTL_SEAT_AVAILABILITY  = 30 * time.Second // invalidated on every reservation change anyway
	TTL_RANKING            = 2 * time.Minute
	TTL_STATISTICS_DAILY   = 5 * time.Minute
	TTL_STATISTICS_MONTHLY = 10 * time.Minute
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "studyhall"
)

// ================== SEATS ==================

const (
	CACHE_KEY_SEATS_LIST         = CACHE_PREFIX + ":seats:list"
	CACHE_KEY_SEATS_AVAILABILITY = CACHE_PREFIX + ":seats:available:" // + date:start:end
)

// ================== RANKING ==================

const (
	CACHE_KEY_RANKING_MONTHLY = CACHE_PREFIX + ":ranking:monthly:limit:"
	CACHE_KEY_RANKING_TOTAL   = CACHE_PREFIX + ":ranking:total:limit:"
	CACHE_PATTERN_RANKING     = CACHE_PREFIX + ":ranking:*"
)

// ================== STATISTICS ==================

const (
	CACHE_KEY_STATISTICS_DAILY   = CACHE_PREFIX + ":statistics:daily:"   // + date
	CACHE_KEY_STATISTICS_MONTHLY = CACHE_PREFIX + ":statistics:monthly:" // + yyyy-mm
)

// ================== RATE LIMITING ==================

const (
	RATE_LIMIT_PREFIX = CACHE_PREFIX + ":ratelimit:"
)

// ================== KEY BUILDERS ==================

func BuildAvailabilityKey(date, start, end string) string {
	return CACHE_KEY_SEATS_AVAILABILITY + date + ":" + start + ":" + end
}

// BuildAvailabilityPattern matches every cached availability map of a date
func BuildAvailabilityPattern(date string) string {
	return CACHE_KEY_SEATS_AVAILABILITY + date + ":*"
}

func BuildRankingMonthlyKey(limit int) string {
	return CACHE_KEY_RANKING_MONTHLY + fmt.Sprintf("%d", limit)
}

func BuildRankingTotalKey(limit int) string {
	return CACHE_KEY_RANKING_TOTAL + fmt.Sprintf("%d", limit)
}

func BuildStatisticsDailyKey(date string) string {
	return CACHE_KEY_STATISTICS_DAILY + date
}

func BuildStatisticsMonthlyKey(month string) string {
	return CACHE_KEY_STATISTICS_MONTHLY + month
}

func BuildRateLimitKey(clientIP, limitType string) string {
	return RATE_LIMIT_PREFIX + clientIP + ":" + limitType
}
