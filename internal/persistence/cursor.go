// Package persistence contains helpers shared by store implementations.
package persistence

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
)

// EncodeCursor serialises the cursor to a string token.
func EncodeCursor(c *domain.Cursor) string {
	if c == nil {
		return ""
	}
	raw := fmt.Sprintf("%s|%s", c.StartDate.UTC().Format(time.RFC3339Nano), c.ID)
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses the encoded cursor token. An empty token yields nil.
func DecodeCursor(token string) (*domain.Cursor, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	return &domain.Cursor{StartDate: ts, ID: parts[1]}, nil
}

// Page returns up to limit activities following cursor from a newest-first
// listing, and the cursor of the next page when more remain.
func Page(activities []domain.Activity, cursor *domain.Cursor, limit int) ([]domain.Activity, *domain.Cursor) {
	start := 0
	if cursor != nil {
		start = len(activities)
		for i, a := range activities {
			if cursor.After(a) {
				start = i
				break
			}
		}
	}
	rest := activities[start:]
	if limit <= 0 || len(rest) <= limit {
		return rest, nil
	}
	page := rest[:limit]
	last := page[len(page)-1]
	return page, &domain.Cursor{StartDate: last.StartDate, ID: last.ID}
}
