// Package ticketmaster fetches events from the Discovery v2 API.
package ticketmaster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ritwiksharan/event-recommendor/internal/domain/events"
	"github.com/ritwiksharan/event-recommendor/pkg/util"
)

const (
	defaultBaseURL = "https://app.ticketmaster.com/discovery/v2"
	pageSize       = 200
)

// Client pages through the Discovery API and normalizes records into domain
// events.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ticketmaster api key cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Search retrieves every matching event up to the catalog record cap.
func (c *Client) Search(ctx context.Context, q events.Query) ([]events.Event, error) {
	var out []events.Event

	for page := 0; ; page++ {
		body, err := c.fetchPage(ctx, q, page)
		if err != nil {
			return nil, err
		}

		var raw pageResponse
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("decode events page: %w", err)
		}
		if raw.Fault != nil {
			return nil, fmt.Errorf("catalog fault: %s", raw.Fault.FaultString)
		}
		if len(raw.Embedded.Events) == 0 {
			break
		}

		for _, rec := range raw.Embedded.Events {
			ev, ok := parseEvent(rec)
			if !ok {
				continue
			}
			out = append(out, ev)
			if len(out) >= events.MaxCatalogRecords {
				return out, nil
			}
		}

		if page+1 >= raw.Page.TotalPages {
			break
		}
	}

	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, q events.Query, page int) ([]byte, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("city", q.City)
	params.Set("countryCode", q.CountryCode)
	params.Set("startDateTime", util.DateKey(q.StartDate)+"T00:00:00Z")
	params.Set("endDateTime", util.DateKey(q.EndDate)+"T23:59:59Z")
	params.Set("size", strconv.Itoa(pageSize))
	params.Set("sort", "date,asc")
	params.Set("page", strconv.Itoa(page))
	if q.StateCode != "" {
		params.Set("stateCode", q.StateCode)
	}
	if q.BudgetMax != nil {
		params.Set("priceMax", strconv.FormatFloat(*q.BudgetMax, 'f', -1, 64))
	}
	for _, segment := range q.Segments {
		params.Add("classificationName", segment)
	}

	endpoint := c.baseURL + "/events.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build events request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("events request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("events request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	return io.ReadAll(resp.Body)
}

type pageResponse struct {
	Embedded struct {
		Events []record `json:"events"`
	} `json:"_embedded"`
	Page struct {
		TotalPages int `json:"totalPages"`
	} `json:"page"`
	Fault *fault `json:"fault"`
}

type fault struct {
	FaultString string `json:"faultstring"`
}

type record struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Info        string `json:"info"`
	PleaseNote  string `json:"pleaseNote"`
	Images      []struct {
		URL string `json:"url"`
	} `json:"images"`
	PriceRanges []struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"priceRanges"`
	Classifications []struct {
		Segment struct {
			Name string `json:"name"`
		} `json:"segment"`
		Genre struct {
			Name string `json:"name"`
		} `json:"genre"`
	} `json:"classifications"`
	Dates struct {
		Start struct {
			LocalDate string `json:"localDate"`
			LocalTime string `json:"localTime"`
		} `json:"start"`
	} `json:"dates"`
	Embedded struct {
		Venues []venue `json:"venues"`
	} `json:"_embedded"`
}

type venue struct {
	Name    string `json:"name"`
	Address struct {
		Line1 string `json:"line1"`
	} `json:"address"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	State struct {
		StateCode string `json:"stateCode"`
	} `json:"state"`
	Location struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"location"`
}

// parseEvent normalizes one raw record. Records missing an ID, name, or date
// are skipped rather than failing the batch.
func parseEvent(rec record) (events.Event, bool) {
	if rec.ID == "" || rec.Name == "" || rec.Dates.Start.LocalDate == "" {
		return events.Event{}, false
	}

	ev := events.Event{
		ID:   rec.ID,
		Name: rec.Name,
		Date: rec.Dates.Start.LocalDate,
		Time: rec.Dates.Start.LocalTime,
		URL:  rec.URL,
	}
	if ev.Time == "" {
		ev.Time = "TBD"
	}

	ev.Description = firstNonEmpty(rec.Description, rec.Info, rec.PleaseNote)

	if len(rec.Embedded.Venues) > 0 {
		v := rec.Embedded.Venues[0]
		ev.VenueName = v.Name
		ev.VenueAddress = v.Address.Line1
		ev.VenueCity = v.City.Name
		ev.VenueState = v.State.StateCode
		ev.VenueLat = parseCoordinate(v.Location.Latitude)
		ev.VenueLon = parseCoordinate(v.Location.Longitude)
	}
	if len(rec.PriceRanges) > 0 {
		ev.PriceMin = rec.PriceRanges[0].Min
		ev.PriceMax = rec.PriceRanges[0].Max
	}
	if len(rec.Classifications) > 0 {
		ev.Category = rec.Classifications[0].Segment.Name
		ev.Genre = rec.Classifications[0].Genre.Name
	}
	if len(rec.Images) > 0 {
		ev.ImageURL = rec.Images[0].URL
	}

	ev.IsWeekend = events.IsWeekendDate(ev.Date)
	ev.IsOutdoor = events.IsOutdoorVenue(ev.VenueName)
	return ev, true
}

func parseCoordinate(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
