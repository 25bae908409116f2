package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Passenger mirrors the passenger service response body. Only the
// fields the aggregates need are decoded.
type Passenger struct {
	ID       uint    `json:"id"`
	Pclass   int     `json:"pclass"`
	Sex      string  `json:"sex"`
	Age      *int    `json:"age"`
	Fare     float64 `json:"fare"`
	Embarked string  `json:"embarked"`
}

type listResponse struct {
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
	Items []Passenger `json:"items"`
}

type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

func New(passengerServiceURL string, pageSize int) *Client {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Client{
		baseURL:  strings.TrimRight(passengerServiceURL, "/"),
		pageSize: pageSize,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

const DefaultPageSize = 500

// AllPassengers pages through the passenger service until the reported
// total is reached.
func (c *Client) AllPassengers(ctx context.Context) ([]Passenger, error) {
	var all []Passenger
	for page := 1; ; page++ {
		resp, err := c.listPage(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Items...)
		if int64(len(all)) >= resp.Total || len(resp.Items) == 0 {
			return all, nil
		}
	}
}

func (c *Client) listPage(ctx context.Context, page int) (*listResponse, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("size", fmt.Sprint(c.pageSize))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/passengers?"+q.Encode(),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("passenger service returned status %d", resp.StatusCode)
	}

	var result listResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
