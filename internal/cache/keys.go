package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"
)

// AthletesKey is the signature of the athlete table query.
func AthletesKey() string {
	return makeKey("athletes")
}

// ActivitiesKey is the signature of an activity window query.
func ActivitiesKey(start, end time.Time) string {
	return makeKey("activities", canonicalTime(start), canonicalTime(end))
}

// ZonesKey is the signature of a heart-rate-zone window query.
func ZonesKey(start, end time.Time) string {
	return makeKey("heart_rate_zones", canonicalTime(start), canonicalTime(end))
}

func canonicalTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func makeKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	h := sha1.Sum([]byte(joined))
	return hex.EncodeToString(h[:])
}
