package repositories

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// nullable column helpers

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func stringOrEmpty(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

// escapeLike escapes the LIKE wildcards so user input is matched literally
func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

// isUUID reports whether id can be compared against a UUID column
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
