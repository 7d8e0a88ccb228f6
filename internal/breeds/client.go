package breeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pethub-backend/internal/shared/telemetry"
)

// Breed is one entry of the merged dog and cat catalog.
type Breed struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ErrUnavailable is returned when neither upstream catalog answered.
var ErrUnavailable = errors.New("breed catalogs unavailable")

const requestTimeout = 5 * time.Second

// Client fetches breed catalogs from the upstream dog and cat APIs
// and merges them into one list. A failing upstream degrades the list
// instead of failing the request; only both failing is an error.
type Client struct {
	DogAPIURL string
	CatAPIURL string
	HTTP      *http.Client
}

// NewClient constructs a Client with a bounded-timeout HTTP client.
func NewClient(dogURL, catURL string) *Client {
	return &Client{
		DogAPIURL: dogURL,
		CatAPIURL: catURL,
		HTTP:      &http.Client{Timeout: requestTimeout},
	}
}

// List returns the merged breed catalog, dogs first.
func (c *Client) List(ctx context.Context) ([]Breed, error) {
	var out []Breed
	var failures int

	dogs, err := c.fetch(ctx, c.DogAPIURL, "dog")
	if err != nil {
		telemetry.Error("breeds.fetch.failed", map[string]any{
			"source": "dog",
			"err":    err.Error(),
		})
		failures++
	}
	out = append(out, dogs...)

	cats, err := c.fetch(ctx, c.CatAPIURL, "cat")
	if err != nil {
		telemetry.Error("breeds.fetch.failed", map[string]any{
			"source": "cat",
			"err":    err.Error(),
		})
		failures++
	}
	out = append(out, cats...)

	if failures == 2 {
		return nil, ErrUnavailable
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, url, kind string) ([]Breed, error) {
	if url == "" {
		return nil, fmt.Errorf("no %s catalog configured", kind)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s catalog returned status %d", kind, resp.StatusCode)
	}

	var entries []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, err
	}

	out := make([]Breed, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		out = append(out, Breed{Name: e.Name, Type: kind})
	}
	return out, nil
}
