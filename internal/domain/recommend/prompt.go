package recommend

import (
	"fmt"
	"strings"

	"github.com/ritwiksharan/event-recommendor/internal/domain/search"
)

func buildScoringSystemPrompt() string {
	return strings.TrimSpace(`
You are an expert event recommendation engine. Your primary job is to semantically match what the user is looking for against each event's name and description. Score each event 0-100 using this priority order:
1. SEMANTIC MATCH (most important): Does the event name/description align with what the user asked for? Read the description carefully - an event called 'Jazz Night' with a description about a rock band should score low for a jazz request.
2. PRACTICAL FIT: Does the price fit the budget? Is the venue type (indoor/outdoor) appropriate given the weather and the user's venue preference?
3. TIMING: Weekend events score slightly higher for leisure requests.

Calibration examples:
- An event closely matching the requested category and timing scores in the 80s-90s.
- An event in an entirely wrong category scores in the single digits.
- An outdoor event with a severe same-day forecast is penalized heavily but not zeroed.
- An event priced above the budget is penalized proportionally to the overage.
- A venue-type mismatch with the stated preference, on its own, costs at most 5 points.

Give a 'reason' that explains specifically how the event description matches or mismatches the user's request. Respond with ONLY a valid JSON array. No prose, no markdown, no code fences.`)
}

func buildScoringUserPrompt(req search.Request, candidates []ScoredEvent) string {
	budget := "No limit"
	if req.BudgetMax != nil {
		budget = fmt.Sprintf("$%.0f", *req.BudgetMax)
	}
	venuePref := req.VenuePreference
	if venuePref == "" {
		venuePref = "No preference"
	}

	blocks := make([]string, 0, len(candidates))
	for _, c := range candidates {
		blocks = append(blocks, buildEventSummary(c))
	}

	return fmt.Sprintf(
		"User is looking for: %q\nBudget max: %s\nVenue preference: %s\nDate range: %s to %s\n\n"+
			"Score each of the following %d events based on how well they match what the user described. "+
			"Pay close attention to the Description field of each event.\n\n%s\n\n"+
			"Respond with ONLY this JSON array:\n"+
			`[{"event_id": "...", "score": <0-100>, "reason": "one sentence explaining the semantic match"}, ...]`,
		req.Intent, budget, venuePref, req.StartDate.Key(), req.EndDate.Key(),
		len(candidates), strings.Join(blocks, "\n\n---\n\n"),
	)
}

func buildEventSummary(c ScoredEvent) string {
	e := c.Event

	price := "Free/Unknown"
	if e.PriceMin > 0 || e.PriceMax > 0 {
		price = fmt.Sprintf("$%.0f-$%.0f", e.PriceMin, e.PriceMax)
	}

	wx := "No forecast"
	if c.Weather != nil {
		wx = fmt.Sprintf("%s, %.0f-%.0fF, rain %.0f%%, outdoor_ok=%t",
			c.Weather.Description, c.Weather.TempMinF, c.Weather.TempMaxF,
			c.Weather.PrecipChance, c.Weather.IsSuitableOutdoor)
	}

	desc := strings.TrimSpace(e.Description)
	if desc == "" {
		desc = "No description available"
	}

	return fmt.Sprintf(
		"ID: %s\nName: %s\nDescription: %s\nDate: %s (%s) @ %s\nVenue: %s (%s)\nCategory: %s / %s\nPrice: %s\nWeather: %s",
		e.ID, e.Name, desc,
		e.Date, dayKind(e.IsWeekend), e.Time,
		e.VenueName, venueKind(e.IsOutdoor),
		e.Category, e.Genre, price, wx,
	)
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
