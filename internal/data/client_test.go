package data

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key-1234567890"

func testQuery() ResourceQuery {
	return ResourceQuery{Latitude: 35.2, Longitude: -101.9, Year: 2013, HubHeightM: 115}
}

func TestDownloadWindResource(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"api_key":    r.URL.Query().Get("api_key"),
			"email":      r.URL.Query().Get("email"),
			"lat":        r.URL.Query().Get("lat"),
			"year":       r.URL.Query().Get("year"),
			"hub_height": r.URL.Query().Get("hub_height"),
		}
		json.NewEncoder(w).Encode(windResourceResponse{
			MeasurementHeightM: 100,
			WindSpeedMS:        []float64{8.1, 9.2, 7.5},
			WindDirectionDeg:   []float64{270, 265, 280},
		})
	}))
	defer server.Close()

	c := NewResourceClient(testAPIKey, "user@example.com", server.URL)
	res, err := c.DownloadWindResource(testQuery())
	require.NoError(t, err)

	assert.Equal(t, "/api/wind-toolkit/v2/wind/hourly", gotPath)
	assert.Equal(t, testAPIKey, gotQuery["api_key"])
	assert.Equal(t, "user@example.com", gotQuery["email"])
	assert.Equal(t, "35.2000", gotQuery["lat"])
	assert.Equal(t, "2013", gotQuery["year"])
	assert.Equal(t, "115", gotQuery["hub_height"])

	assert.Equal(t, []float64{8.1, 9.2, 7.5}, res.SpeedMS)
	assert.Equal(t, 100.0, res.MeasurementHeightM)
}

func TestDownloadSolarResource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/nsrdb/v2/solar/hourly", r.URL.Path)
		json.NewEncoder(w).Encode(solarResourceResponse{GHIWm2: []float64{0, 450, 900}})
	}))
	defer server.Close()

	c := NewResourceClient(testAPIKey, "user@example.com", server.URL)
	res, err := c.DownloadSolarResource(testQuery())
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 450, 900}, res.GHIWm2)
}

func TestDownloadErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		retryAfter string
		wantCode   string
	}{
		{"forbidden", http.StatusForbidden, "", "INVALID_API_KEY"},
		{"rate limited", http.StatusTooManyRequests, "30", "RATE_LIMIT_EXCEEDED"},
		{"unauthorized", http.StatusUnauthorized, "", "UNAUTHORIZED"},
		{"server error", http.StatusInternalServerError, "", "API_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			c := NewResourceClient(testAPIKey, "user@example.com", server.URL)
			_, err := c.DownloadWindResource(testQuery())
			require.Error(t, err)

			var apiErr *ResourceAPIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.retryAfter, apiErr.RetryAfter)
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		email    string
		wantCode string
	}{
		{"missing key", "", "user@example.com", "MISSING_API_KEY"},
		{"short key", "short", "user@example.com", "INVALID_API_KEY_FORMAT"},
		{"missing email", testAPIKey, "", "MISSING_EMAIL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewResourceClient(tt.key, tt.email, "http://unused.invalid")
			_, err := c.DownloadWindResource(testQuery())
			require.Error(t, err)

			var apiErr *ResourceAPIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestValidateQuery(t *testing.T) {
	c := NewResourceClient(testAPIKey, "user@example.com", "http://unused.invalid")

	q := testQuery()
	q.Latitude = 95
	_, err := c.DownloadWindResource(q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")

	q = testQuery()
	q.Longitude = -200
	_, err = c.DownloadWindResource(q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "longitude")

	q = testQuery()
	q.Year = 0
	_, err = c.DownloadWindResource(q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "year")
}

func TestInvalidResponsePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Mismatched lengths fail resource validation.
		json.NewEncoder(w).Encode(windResourceResponse{
			WindSpeedMS:      []float64{8.1, 9.2},
			WindDirectionDeg: []float64{270},
		})
	}))
	defer server.Close()

	c := NewResourceClient(testAPIKey, "user@example.com", server.URL)
	_, err := c.DownloadWindResource(testQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}
