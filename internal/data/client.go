// Package data fetches and loads the hourly wind and solar resource profiles
// the simulation runs on: a hosted resource API for downloads, CSV files for
// local profiles, and synthetic generators for demos and tests.
package data

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"greenheart/internal/model"
)

// Environment variables read for API access. The key and email are only
// required when downloading resource data; file-based runs never touch them.
const (
	EnvAPIKey   = "NREL_API_KEY"
	EnvAPIEmail = "NREL_API_EMAIL"
)

// ResourceClient fetches hourly wind and solar resource profiles from a
// hosted resource API.
type ResourceClient struct {
	APIKey  string
	Email   string
	BaseURL string
	Client  *http.Client
}

// NewResourceClient creates a resource API client. If baseURL is empty,
// defaults to "https://developer.nrel.gov".
func NewResourceClient(apiKey, email, baseURL string) *ResourceClient {
	if baseURL == "" {
		baseURL = "https://developer.nrel.gov"
	}
	return &ResourceClient{
		APIKey:  apiKey,
		Email:   email,
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// NewResourceClientFromEnv reads the API key and email from the environment.
func NewResourceClientFromEnv(baseURL string) *ResourceClient {
	return NewResourceClient(os.Getenv(EnvAPIKey), os.Getenv(EnvAPIEmail), baseURL)
}

// ResourceQuery defines parameters for fetching a site's resource profile.
type ResourceQuery struct {
	Latitude   float64
	Longitude  float64
	Year       int
	HubHeightM float64 // wind only; rounded to the nearest dataset level server-side
}

// ResourceAPIError represents an error from the resource API.
type ResourceAPIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // for rate limit errors
}

func (e *ResourceAPIError) Error() string {
	return e.Message
}

// windResourceResponse is the wire shape of the wind endpoint.
type windResourceResponse struct {
	MeasurementHeightM float64   `json:"measurement_height_m"`
	WindSpeedMS        []float64 `json:"wind_speed_ms"`
	WindDirectionDeg   []float64 `json:"wind_direction_deg"`
}

// solarResourceResponse is the wire shape of the solar endpoint.
type solarResourceResponse struct {
	GHIWm2 []float64 `json:"ghi_w_m2"`
}

// DownloadWindResource fetches an hourly wind profile for a site and year.
func (c *ResourceClient) DownloadWindResource(q ResourceQuery) (*model.WindResource, error) {
	if err := c.validateCredentials(); err != nil {
		return nil, err
	}
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	if cache := GetCache(); cache != nil {
		key := cacheKey("wind", q)
		if cached, found := cache.Get(key); found {
			log.Printf("[Resource] Cache hit: wind profile (lat=%.4f, lon=%.4f, year=%d)",
				q.Latitude, q.Longitude, q.Year)
			res := cached.(*model.WindResource)
			return res, nil
		}
	}

	var resp windResourceResponse
	if err := c.get("/api/wind-toolkit/v2/wind/hourly", q, &resp); err != nil {
		return nil, err
	}
	res := &model.WindResource{
		SpeedMS:            resp.WindSpeedMS,
		DirectionDeg:       resp.WindDirectionDeg,
		MeasurementHeightM: resp.MeasurementHeightM,
	}
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("wind resource response invalid: %w", err)
	}
	log.Printf("[Resource] Success: received %d wind intervals (lat=%.4f, lon=%.4f, year=%d)",
		res.Hours(), q.Latitude, q.Longitude, q.Year)

	if cache := GetCache(); cache != nil {
		cache.Set(cacheKey("wind", q), res)
	}
	return res, nil
}

// DownloadSolarResource fetches an hourly GHI profile for a site and year.
func (c *ResourceClient) DownloadSolarResource(q ResourceQuery) (*model.SolarResource, error) {
	if err := c.validateCredentials(); err != nil {
		return nil, err
	}
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	if cache := GetCache(); cache != nil {
		key := cacheKey("solar", q)
		if cached, found := cache.Get(key); found {
			log.Printf("[Resource] Cache hit: solar profile (lat=%.4f, lon=%.4f, year=%d)",
				q.Latitude, q.Longitude, q.Year)
			return cached.(*model.SolarResource), nil
		}
	}

	var resp solarResourceResponse
	if err := c.get("/api/nsrdb/v2/solar/hourly", q, &resp); err != nil {
		return nil, err
	}
	res := &model.SolarResource{GHIWm2: resp.GHIWm2}
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("solar resource response invalid: %w", err)
	}
	log.Printf("[Resource] Success: received %d solar intervals (lat=%.4f, lon=%.4f, year=%d)",
		len(res.GHIWm2), q.Latitude, q.Longitude, q.Year)

	if cache := GetCache(); cache != nil {
		cache.Set(cacheKey("solar", q), res)
	}
	return res, nil
}

func (c *ResourceClient) get(path string, q ResourceQuery, out any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	query := u.Query()
	query.Set("api_key", c.APIKey)
	query.Set("email", c.Email)
	query.Set("lat", fmt.Sprintf("%.4f", q.Latitude))
	query.Set("lon", fmt.Sprintf("%.4f", q.Longitude))
	query.Set("year", fmt.Sprintf("%d", q.Year))
	if q.HubHeightM > 0 {
		query.Set("hub_height", fmt.Sprintf("%.0f", q.HubHeightM))
	}
	u.RawQuery = query.Encode()

	log.Printf("[Resource] Request: GET %s (lat=%.4f, lon=%.4f, year=%d)",
		u.Path, q.Latitude, q.Longitude, q.Year)

	req, err := http.NewRequest("GET", u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Printf("[Resource] Request failed: %v (duration: %v)", err, duration)
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[Resource] Response: %d %s (duration: %v)", resp.StatusCode, resp.Status, duration)

	switch resp.StatusCode {
	case http.StatusOK:
		// Success, continue.
	case http.StatusForbidden:
		log.Printf("[Resource] Error: 403 Forbidden - invalid API key or insufficient permissions")
		return &ResourceAPIError{
			StatusCode: resp.StatusCode,
			Code:       "INVALID_API_KEY",
			Message:    "Invalid API key or insufficient permissions",
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		log.Printf("[Resource] Error: 429 rate limit exceeded - retry after: %s", retryAfter)
		return &ResourceAPIError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	case http.StatusUnauthorized:
		log.Printf("[Resource] Error: 401 Unauthorized - invalid API key")
		return &ResourceAPIError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "Unauthorized: Invalid API key",
		}
	default:
		log.Printf("[Resource] Error: %d %s", resp.StatusCode, resp.Status)
		return &ResourceAPIError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Printf("[Resource] Error decoding response: %v", err)
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// validateCredentials rejects obviously missing or malformed credentials
// before making a request.
func (c *ResourceClient) validateCredentials() error {
	if c.APIKey == "" {
		return &ResourceAPIError{
			Code:    "MISSING_API_KEY",
			Message: fmt.Sprintf("API key is required (set %s)", EnvAPIKey),
		}
	}
	if len(c.APIKey) < 10 {
		return &ResourceAPIError{
			Code:    "INVALID_API_KEY_FORMAT",
			Message: "API key appears to be invalid (too short)",
		}
	}
	if c.Email == "" {
		return &ResourceAPIError{
			Code:    "MISSING_EMAIL",
			Message: fmt.Sprintf("registered email is required (set %s)", EnvAPIEmail),
		}
	}
	return nil
}

func validateQuery(q ResourceQuery) error {
	if q.Latitude < -90 || q.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", q.Latitude)
	}
	if q.Longitude < -180 || q.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", q.Longitude)
	}
	if q.Year == 0 {
		return fmt.Errorf("resource year is required")
	}
	return nil
}
