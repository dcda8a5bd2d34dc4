package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// parseDate は RFC 3339 の日時または YYYY-MM-DD 形式の日付を UTC の時刻に変換します。
func parseDate(field, raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		utc := t.UTC()
		return &utc, nil
	}

	t, err := time.ParseInLocation(dateLayout, trimmed, time.UTC)
	if err != nil {
		return nil, invalidRequest("%s must be an RFC 3339 date-time or YYYY-MM-DD", field)
	}
	return &t, nil
}

func parseDatePtr(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	return parseDate(field, *raw)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// requireUUID は ID が UUID 形式であることを検証し、不正な場合は invalid を返します。
func requireUUID(raw string, invalid error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if _, err := uuid.Parse(trimmed); err != nil {
		return "", invalid
	}
	return trimmed, nil
}

// optionalUUID は空文字列を許容する requireUUID です。
func optionalUUID(raw string, invalid error) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return requireUUID(raw, invalid)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidRequest("%s must be an integer", key)
	}
	return v, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return invalidRequest("malformed request body: %v", err)
	}
	return nil
}
