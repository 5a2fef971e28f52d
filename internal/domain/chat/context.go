package chat

import (
	"fmt"
	"strings"

	"github.com/ritwiksharan/event-recommendor/internal/domain/recommend"
)

// buildContextBlock renders the recommendation set as the engine's only
// factual source. Every listed item appears with its name, date, time, venue,
// price, forecast summary, ticket link, and score rationale; absent facts are
// labeled as unavailable so the model states them missing instead of guessing.
func buildContextBlock(set recommend.RecommendationSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Top %d recommended events for the user:\n(City: %s, Dates: %s to %s)\n\n",
		len(set.Recommendations), set.Request.City,
		set.Request.StartDate.Key(), set.Request.EndDate.Key())

	for i, r := range set.Recommendations {
		e := r.Event

		price := "Free/Unknown"
		if e.PriceMin > 0 || e.PriceMax > 0 {
			price = fmt.Sprintf("$%.0f-$%.0f", e.PriceMin, e.PriceMax)
		}

		wx := "No forecast available"
		if r.Weather != nil {
			wx = fmt.Sprintf("%s, %.0f-%.0fF, rain %.0f%%, suitable_outdoor=%t",
				r.Weather.Description, r.Weather.TempMinF, r.Weather.TempMaxF,
				r.Weather.PrecipChance, r.Weather.IsSuitableOutdoor)
		}

		eventTime := strings.TrimSpace(e.Time)
		if eventTime == "" {
			eventTime = "TBD"
		}
		tickets := strings.TrimSpace(e.URL)
		if tickets == "" {
			tickets = "Not available"
		}

		fmt.Fprintf(&b,
			"#%d %s [Score: %.0f/100]\n  Date   : %s (%s) @ %s\n  Venue  : %s (%s)\n  Genre  : %s / %s\n  Price  : %s\n  Weather: %s\n  Tickets: %s\n  Why recommended: %s\n\n",
			i+1, e.Name, r.Score,
			e.Date, dayKind(e.IsWeekend), eventTime,
			e.VenueName, venueKind(e.IsOutdoor),
			e.Category, e.Genre, price, wx, tickets, r.Reason,
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

func dayKind(weekend bool) string {
	if weekend {
		return "Weekend"
	}
	return "Weekday"
}

func venueKind(outdoor bool) string {
	if outdoor {
		return "Outdoor"
	}
	return "Indoor"
}
