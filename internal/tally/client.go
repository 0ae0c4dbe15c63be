// Package tally fetches DAO governance metadata from the Tally GraphQL API
// and normalizes it into the metrics record the scoring engine consumes.
//
// The API is a single POST endpoint. Identifier resolution tries the
// identifier as an organization slug first and falls back to a name search,
// so callers can pass either "uniswap" or "Uniswap".
package tally

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/govpulse/govpulse/internal/model"
)

// DefaultEndpoint is the public Tally GraphQL endpoint.
const DefaultEndpoint = "https://api.tally.xyz/query"

// ErrNotFound is returned when an identifier resolves to no organization,
// neither as a slug nor through search.
var ErrNotFound = errors.New("dao not found")

const (
	// maxAttempts bounds retries on 429/5xx responses.
	maxAttempts  = 3
	retryBackoff = 500 * time.Millisecond

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// Client is a thin Tally API client. Safe for concurrent use.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the given endpoint. An empty endpoint
// selects DefaultEndpoint; a non-positive timeout selects 15s.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// orgFields is the shared selection; one round trip carries everything the
// metrics builder needs.
const orgFields = `
      id
      name
      slug
      tokenSymbol
      proposalsCount
      activeProposalsCount
      passedProposalsCount
      failedProposalsCount
      tokenHoldersCount
      votersCount
      delegatesCount
      activeDelegatesCount
      delegationGrowthPct
      topTenOwnershipPct
      treasuryUsd
      monthlyOutflowUsd
      avgProposalDurationDays
      engagementScore`

var organizationQuery = `query OrganizationBySlug($slug: String!) {
  organization(input: { slug: $slug }) {` + orgFields + `
  }
}`

var searchQuery = `query SearchOrganizations($name: String!) {
  organizations(input: { filters: { name: $name }, page: { limit: 1 } }) {
    nodes {` + orgFields + `
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

// FetchMetrics resolves the identifier and returns normalized governance
// metrics. Implements analyzer.MetricsProvider.
func (c *Client) FetchMetrics(ctx context.Context, identifier string) (*model.DAOMetrics, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("empty DAO identifier: %w", ErrNotFound)
	}

	org, err := c.lookupBySlug(ctx, slugify(identifier))
	if errors.Is(err, ErrNotFound) {
		org, err = c.searchByName(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}

	m := buildMetrics(org)
	return &m, nil
}

func (c *Client) lookupBySlug(ctx context.Context, slug string) (*organizationData, error) {
	var payload struct {
		Organization *organizationData `json:"organization"`
	}
	if err := c.do(ctx, organizationQuery, map[string]any{"slug": slug}, &payload); err != nil {
		return nil, err
	}
	if payload.Organization == nil {
		return nil, ErrNotFound
	}
	return payload.Organization, nil
}

func (c *Client) searchByName(ctx context.Context, name string) (*organizationData, error) {
	var payload struct {
		Organizations struct {
			Nodes []organizationData `json:"nodes"`
		} `json:"organizations"`
	}
	if err := c.do(ctx, searchQuery, map[string]any{"name": name}, &payload); err != nil {
		return nil, err
	}
	if len(payload.Organizations.Nodes) == 0 {
		return nil, fmt.Errorf("no organization matches %q: %w", name, ErrNotFound)
	}
	return &payload.Organizations.Nodes[0], nil
}

// do executes one GraphQL request, retrying on 429 and 5xx.
func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal GraphQL request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt-1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Api-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("tally API status %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("tally API status %d: %s", resp.StatusCode, firstLine(data))
		}

		var envelope graphQLResponse
		if err := json.Unmarshal(data, &envelope); err != nil {
			return fmt.Errorf("decode GraphQL response: %w", err)
		}
		if len(envelope.Errors) > 0 {
			msg := envelope.Errors[0].Message
			if strings.Contains(strings.ToLower(msg), "not found") {
				return ErrNotFound
			}
			return fmt.Errorf("tally API error: %s", msg)
		}
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode GraphQL data: %w", err)
		}
		return nil
	}
	return fmt.Errorf("tally API request failed after %d attempts: %w", maxAttempts, lastErr)
}

// slugify lowers an identifier into the slug form Tally uses.
func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

func firstLine(data []byte) string {
	s := strings.TrimSpace(string(data))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
