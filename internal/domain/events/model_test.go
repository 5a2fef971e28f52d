package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsWeekendDate(t *testing.T) {
	cases := []struct {
		date string
		want bool
	}{
		{"2026-09-04", true},  // Friday
		{"2026-09-05", true},  // Saturday
		{"2026-09-06", true},  // Sunday
		{"2026-09-07", false}, // Monday
		{"2026-09-03", false}, // Thursday
		{"2026-10-31", true},  // Saturday, month boundary
		{"2027-01-01", true},  // Friday, year boundary
		{"not-a-date", false},
		{"", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, IsWeekendDate(tc.date), "date %q", tc.date)
	}
}

func TestIsOutdoorVenue(t *testing.T) {
	cases := []struct {
		venue string
		want  bool
	}{
		{"Madison Square Garden", false},
		{"Yankee Stadium", true},
		{"Central Park SummerStage", true},
		{"Red Rocks Amphitheater", true},
		{"Soldier Field", true},
		{"State Fair Grounds", true},
		{"Merriweather Post Pavilion", true},
		{"THE PAVILION", true},
		{"Blue Note Jazz Club", false},
		{"", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, IsOutdoorVenue(tc.venue), "venue %q", tc.venue)
	}
}
