package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-ensemble/internal/weather"
)

const (
	nwsBaseURL       = "https://api.weather.gov"
	metAlertsBaseURL = "https://api.met.no/weatherapi/metalerts/2.0"
)

// alertFeed is one region's alert endpoint.
type alertFeed interface {
	fetch(ctx context.Context, coords weather.Coordinates) ([]weather.RawAlert, error)
}

// RegionalAlerts routes alert requests to the feed integrated for the
// location's region. Regions without a feed get an empty list.
type RegionalAlerts struct {
	feeds map[string]alertFeed
}

// NewRegionalAlerts wires the known regional feeds. baseURLs may override
// endpoints per region code (used by tests).
func NewRegionalAlerts(opts Options, baseURLs map[string]string) *RegionalAlerts {
	nwsOpts := opts
	nwsOpts.BaseURL = baseURLs["US"]
	metOpts := opts
	metOpts.BaseURL = baseURLs["NO"]

	return &RegionalAlerts{
		feeds: map[string]alertFeed{
			"US": &nwsFeed{
				baseURL: nwsOpts.baseURL(nwsBaseURL),
				httpCfg: nwsOpts.httpConfig(),
				circuit: newBreaker("nws-alerts"),
			},
			"NO": &metAlertsFeed{
				baseURL: metOpts.baseURL(metAlertsBaseURL),
				httpCfg: metOpts.httpConfig(),
				circuit: newBreaker("metalerts"),
			},
		},
	}
}

// Supports reports whether a region has an integrated feed.
func (r *RegionalAlerts) Supports(region string) bool {
	_, ok := r.feeds[strings.ToUpper(region)]
	return ok
}

func (r *RegionalAlerts) FetchAlerts(ctx context.Context, loc weather.Location) ([]weather.RawAlert, error) {
	feed, ok := r.feeds[strings.ToUpper(loc.RegionCode)]
	if !ok {
		return []weather.RawAlert{}, nil
	}
	return feed.fetch(ctx, loc.Coordinates)
}

// nwsFeed reads active alerts from the US National Weather Service.
type nwsFeed struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func (f *nwsFeed) fetch(ctx context.Context, coords weather.Coordinates) ([]weather.RawAlert, error) {
	values := url.Values{}
	values.Set("point", fmt.Sprintf("%s,%s",
		strconv.FormatFloat(coords.Lat, 'f', 4, 64),
		strconv.FormatFloat(coords.Lon, 'f', 4, 64)))
	u := fmt.Sprintf("%s/alerts/active?%s", f.baseURL, values.Encode())

	var payload struct {
		Features []struct {
			Properties struct {
				Event       string `json:"event"`
				Headline    string `json:"headline"`
				Description string `json:"description"`
				Severity    string `json:"severity"`
			} `json:"properties"`
		} `json:"features"`
	}
	if err := getJSON(ctx, f.httpCfg, f.circuit, u, &payload); err != nil {
		return nil, fmt.Errorf("nws alerts: %w", err)
	}

	alerts := make([]weather.RawAlert, 0, len(payload.Features))
	for _, feat := range payload.Features {
		title := feat.Properties.Headline
		if title == "" {
			title = feat.Properties.Event
		}
		alerts = append(alerts, weather.RawAlert{
			Title:       title,
			Description: feat.Properties.Description,
			Severity:    feat.Properties.Severity,
		})
	}
	return alerts, nil
}

// metAlertsFeed reads MET Norway's MetAlerts feed.
type metAlertsFeed struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func (f *metAlertsFeed) fetch(ctx context.Context, coords weather.Coordinates) ([]weather.RawAlert, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(coords.Lat, 'f', 4, 64))
	values.Set("lon", strconv.FormatFloat(coords.Lon, 'f', 4, 64))
	u := fmt.Sprintf("%s/current.json?%s", f.baseURL, values.Encode())

	var payload struct {
		Features []struct {
			Properties struct {
				Title       string `json:"title"`
				Event       string `json:"event"`
				Severity    string `json:"severity"`
				Description string `json:"description"`
				Instruction string `json:"instruction"`
			} `json:"properties"`
		} `json:"features"`
	}
	if err := getJSON(ctx, f.httpCfg, f.circuit, u, &payload); err != nil {
		return nil, fmt.Errorf("metalerts: %w", err)
	}

	alerts := make([]weather.RawAlert, 0, len(payload.Features))
	for _, feat := range payload.Features {
		p := feat.Properties
		title := p.Title
		if title == "" {
			title = p.Event
		}
		desc := p.Description
		if p.Instruction != "" {
			desc = strings.TrimSpace(desc + " " + p.Instruction)
		}
		alerts = append(alerts, weather.RawAlert{
			Title:       title,
			Description: desc,
			Severity:    p.Severity,
		})
	}
	return alerts, nil
}
