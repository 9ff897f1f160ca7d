// Package client talks to a running Voyara server the way the browser does.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/njprem/Voyara_APP_BackEnd/internal/domain"
	"github.com/njprem/Voyara_APP_BackEnd/internal/stream"
)

type Client struct {
	http *resty.Client
}

// APIError is a non-2xx answer carrying the server's {"error": ...} body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("voyara: %d %s", e.Status, e.Message)
}

func New(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json, text/plain").
		SetTimeout(5 * time.Minute)
	return &Client{http: c}
}

// Generate posts req to /api/generate and reassembles the streamed
// document. On ErrMalformed the returned Result still carries the raw text.
func (c *Client) Generate(ctx context.Context, req domain.PlanRequest) (*stream.Result, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetDoNotParseResponse(true).
		Post("/api/generate")
	if err != nil {
		return nil, fmt.Errorf("generate request: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(body, 64<<10))
		return nil, apiError(resp.StatusCode(), raw)
	}
	return stream.Reassemble(body)
}

// FetchShared loads a saved trip by id. No session is needed.
func (c *Client) FetchShared(ctx context.Context, id uuid.UUID) (*domain.SavedTrip, error) {
	var out struct {
		Itinerary domain.SavedTrip `json:"itinerary"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/itineraries/" + id.String())
	if err != nil {
		return nil, fmt.Errorf("fetch itinerary: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp.StatusCode(), resp.Body())
	}
	return &out.Itinerary, nil
}

func apiError(status int, raw []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	message := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{Status: status, Message: message}
}
