/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import "testing"

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2025-03-15", "2025-03-15"},
		{"March 15, 2025", "2025-03-15"},
		{"03/15/2025", "2025-03-15"},
		{" 2025-03-15 ", "2025-03-15"},
		{"", ""},
		{"null", "null"},
		{"spring season", "spring season"},
	}
	for _, c := range cases {
		if got := NormalizeDate(c.in); got != c.want {
			t.Errorf("NormalizeDate(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestParseDateOrZero(t *testing.T) {
	for _, in := range []string{"", "null", "  "} {
		got, err := ParseDateOrZero(in)
		if err != nil || !got.IsZero() {
			t.Errorf("ParseDateOrZero(%q) = %v, %v; want zero", in, got, err)
		}
	}
}
