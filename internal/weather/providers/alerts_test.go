package providers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-ensemble/internal/weather"
)

func TestRegionalAlertsNWS(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"features":[
		{"properties":{"event":"Tornado Warning","headline":"Tornado Warning issued","description":"Take shelter","severity":"Extreme"}},
		{"properties":{"event":"Wind Advisory","severity":"Minor"}}]}`,
		func(r *http.Request) {
			assert.Equal(t, "/alerts/active", r.URL.Path)
			assert.Equal(t, "40.7128,-74.0060", r.URL.Query().Get("point"))
			assert.Equal(t, "ensemble-test", r.Header.Get("User-Agent"))
		})

	alerts := NewRegionalAlerts(Options{UserAgent: "ensemble-test"}, map[string]string{"US": srv.URL})
	got, err := alerts.FetchAlerts(context.Background(), weather.Location{
		Coordinates: weather.Coordinates{Lat: 40.7128, Lon: -74.006},
		RegionCode:  "us",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Tornado Warning issued", got[0].Title)
	assert.Equal(t, "Wind Advisory", got[1].Title)

	view := weather.FilterAlerts(got)
	assert.Len(t, view.Severe, 1)
}

func TestRegionalAlertsMetNorway(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"features":[
		{"properties":{"title":"Gale, orange level","severity":"Severe","description":"Strong wind.","instruction":"Stay indoors."}}]}`,
		func(r *http.Request) {
			assert.Equal(t, "/current.json", r.URL.Path)
			assert.Equal(t, "59.9100", r.URL.Query().Get("lat"))
		})

	alerts := NewRegionalAlerts(Options{}, map[string]string{"NO": srv.URL})
	got, err := alerts.FetchAlerts(context.Background(), weather.Location{
		Coordinates: weather.Coordinates{Lat: 59.91, Lon: 10.75},
		RegionCode:  "NO",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Gale, orange level", got[0].Title)
	assert.Equal(t, "Strong wind. Stay indoors.", got[0].Description)
}

func TestRegionalAlertsUnsupportedRegion(t *testing.T) {
	alerts := NewRegionalAlerts(Options{}, nil)
	assert.True(t, alerts.Supports("us"))
	assert.False(t, alerts.Supports("FR"))

	got, err := alerts.FetchAlerts(context.Background(), weather.Location{RegionCode: "FR"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRegionalAlertsFeedError(t *testing.T) {
	srv := jsonServer(t, http.StatusBadRequest, `{}`, nil)

	alerts := NewRegionalAlerts(Options{}, map[string]string{"US": srv.URL})
	_, err := alerts.FetchAlerts(context.Background(), weather.Location{RegionCode: "US"})
	assert.Equal(t, weather.FailureHTTP, weather.Classify(err))
}
