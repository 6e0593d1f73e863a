package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-ensemble/internal/store"
	"github.com/i474232898/weather-ensemble/internal/weather"
)

type fakeService struct {
	latest     weather.CycleResult
	latestErr  error
	refreshErr error
	refreshes  int
	location   weather.Location
}

func (f *fakeService) Latest() (weather.CycleResult, error) { return f.latest, f.latestErr }

func (f *fakeService) Refresh(context.Context) (weather.CycleResult, error) {
	f.refreshes++
	return f.latest, f.refreshErr
}

func (f *fakeService) Location() weather.Location { return f.location }
func (f *fakeService) SetLocation(loc weather.Location) { f.location = loc }

type fakeSettings struct {
	current weather.Settings
	applied int
}

func (f *fakeSettings) Settings() weather.Settings { return f.current }

func (f *fakeSettings) Apply(s weather.Settings) error {
	f.current = s
	f.applied++
	return nil
}

func sampleResult() weather.CycleResult {
	return weather.CycleResult{
		ID: uuid.New(),
		Consensus: &weather.ConsensusReading{
			Reading: weather.Reading{TemperatureC: 20, FeelsLikeC: 18, WindSpeedKmh: 36},
			ContributingProviders: []weather.ProviderID{
				weather.ProviderSecondary, weather.ProviderTertiary,
			},
		},
		Alerts: weather.AlertView{
			All: []weather.AlertRecord{
				{Title: "Storm", Severity: weather.SeveritySevere},
				{Title: "Fog", Severity: weather.SeverityMinor},
			},
			Severe: []weather.AlertRecord{{Title: "Storm", Severity: weather.SeveritySevere}},
		},
		Tips: []string{weather.TipFavorable},
	}
}

func newTestApp(t *testing.T, svc *fakeService, settings *fakeSettings) (*fiber.App, *store.MemoryStore) {
	t.Helper()
	mem, err := store.NewMemoryStore(4)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, svc, mem, settings)
	return app, mem
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestWeatherBeforeFirstCycle(t *testing.T) {
	app, _ := newTestApp(t, &fakeService{latestErr: store.ErrNotFound}, &fakeSettings{current: weather.DefaultSettings()})

	resp, body := do(t, app, http.MethodGet, "/api/v1/weather", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"error":true`)
}

func TestWeatherDisplayUnits(t *testing.T) {
	settings := &fakeSettings{current: weather.Settings{
		TemperatureUnit: weather.Fahrenheit,
		WindUnit:        weather.WindMs,
	}}
	app, _ := newTestApp(t, &fakeService{latest: sampleResult()}, settings)

	resp, body := do(t, app, http.MethodGet, "/api/v1/weather", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Consensus weather.ConsensusReading `json:"consensus"`
		Display   displayReading           `json:"display"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 20.0, got.Consensus.TemperatureC)
	assert.Equal(t, 68.0, got.Display.Temperature)
	assert.Equal(t, 64.4, got.Display.FeelsLike)
	assert.Equal(t, 10.0, got.Display.WindSpeed)
}

func TestWeatherUnavailable(t *testing.T) {
	result := weather.CycleResult{ID: uuid.New(), Unavailable: true}
	app, _ := newTestApp(t, &fakeService{latest: result}, &fakeSettings{current: weather.DefaultSettings()})

	resp, body := do(t, app, http.MethodGet, "/api/v1/weather", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), `"unavailable":true`)
	assert.Contains(t, string(body), `"display":null`)
}

func TestAlertsSevereFilter(t *testing.T) {
	app, _ := newTestApp(t, &fakeService{latest: sampleResult()}, &fakeSettings{})

	var got struct {
		Alerts []weather.AlertRecord `json:"alerts"`
	}

	_, body := do(t, app, http.MethodGet, "/api/v1/weather/alerts", "")
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Len(t, got.Alerts, 2)

	_, body = do(t, app, http.MethodGet, "/api/v1/weather/alerts?severe=TRUE", "")
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got.Alerts, 1)
	assert.Equal(t, "Storm", got.Alerts[0].Title)
}

func TestCycleLookup(t *testing.T) {
	app, mem := newTestApp(t, &fakeService{}, &fakeSettings{})
	result := sampleResult()
	mem.Save(result)

	resp, _ := do(t, app, http.MethodGet, "/api/v1/cycles/"+result.ID.String(), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/v1/cycles/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, app, http.MethodGet, "/api/v1/cycles/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"completed", nil, http.StatusOK},
		{"in progress", weather.ErrCycleInProgress, http.StatusConflict},
		{"no providers", weather.ErrNoProvidersAvailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{latest: sampleResult(), refreshErr: tt.err}
			app, _ := newTestApp(t, svc, &fakeSettings{})

			resp, _ := do(t, app, http.MethodPost, "/api/v1/refresh", "")
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, 1, svc.refreshes)
		})
	}
}

func TestPutSettings(t *testing.T) {
	settings := &fakeSettings{current: weather.DefaultSettings()}
	app, _ := newTestApp(t, &fakeService{}, settings)

	resp, _ := do(t, app, http.MethodPut, "/api/v1/settings",
		`{"temperatureUnit":"fahrenheit","windUnit":"mph","autoRefresh":true,"refreshIntervalMs":600000}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, settings.applied)
	assert.Equal(t, weather.Fahrenheit, settings.current.TemperatureUnit)

	resp, _ = do(t, app, http.MethodPut, "/api/v1/settings",
		`{"temperatureUnit":"kelvin","windUnit":"mph","autoRefresh":false}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPut, "/api/v1/settings",
		`{"temperatureUnit":"celsius","windUnit":"kmh","autoRefresh":true,"refreshIntervalMs":1000}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 1, settings.applied)
}

func TestPutLocation(t *testing.T) {
	svc := &fakeService{}
	app, _ := newTestApp(t, svc, &fakeSettings{})

	resp, _ := do(t, app, http.MethodPut, "/api/v1/location", `{"lat":59.91,"lon":10.75,"regionCode":"no"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 59.91, svc.location.Lat)
	assert.Equal(t, "NO", svc.location.RegionCode)

	resp, _ = do(t, app, http.MethodPut, "/api/v1/location", `{"lat":95,"lon":10}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPut, "/api/v1/location", `{"lon":10}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
