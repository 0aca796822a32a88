package profileclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client implements matchmaking_out.PlayerProfileClient over the
// external player profile service's REST API (spec §1 out-of-scope
// "ranking/skill inference" collaborator).
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{MaxIdleConns: 10, IdleConnTimeout: 30 * time.Second},
			Timeout:   3 * time.Second,
		},
		baseURL: baseURL,
	}
}

type profileResponse struct {
	SkillLevel float64 `json:"skill_level"`
	Karma      float64 `json:"karma"`
	Eligible   bool    `json:"eligible"`
}

func (c *Client) fetch(ctx context.Context, userID uuid.UUID) (*profileResponse, error) {
	url := fmt.Sprintf("%s/profiles/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var profile profileResponse
	if err := json.NewDecoder(res.Body).Decode(&profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

// SkillLevel implements matchmaking_out.PlayerProfileClient, defaulting
// to 50 when the lookup fails (spec §4.D step 2).
func (c *Client) SkillLevel(ctx context.Context, userID uuid.UUID, gameID string) (float64, error) {
	profile, err := c.fetch(ctx, userID)
	if err != nil {
		return 50, nil
	}
	return profile.SkillLevel, nil
}

func (c *Client) Karma(ctx context.Context, userID uuid.UUID) (float64, error) {
	profile, err := c.fetch(ctx, userID)
	if err != nil {
		return 50, nil
	}
	return profile.Karma, nil
}

func (c *Client) IsEligible(ctx context.Context, userID uuid.UUID) (bool, error) {
	profile, err := c.fetch(ctx, userID)
	if err != nil {
		return true, nil
	}
	return profile.Eligible, nil
}
