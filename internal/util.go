/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero returns a parsed time or zero if input is empty or "null".
func ParseDateOrZero(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}

// NormalizeDate rewrites a competition date in any common notation to
// YYYY-MM-DD. Dates that cannot be parsed are returned unchanged so free
// text such as "spring 2025" survives.
func NormalizeDate(s string) string {
	t, err := ParseDateOrZero(s)
	if err != nil || t.IsZero() {
		return strings.TrimSpace(s)
	}

	return t.Format("2006-01-02")
}
