// Package cloudflare is a small client for the Cloudflare DNS API, used when
// a stack's zone is hosted on Cloudflare instead of Route53.
package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the Cloudflare v4 API endpoint.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// ownerPrefix marks records created by unifictl in their comment field.
const ownerPrefix = "managed by unifictl stack="

// Client is a minimal Cloudflare API client for DNS record management.
type Client struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// Record represents a Cloudflare DNS record.
type Record struct {
	ID      string `json:"id,omitempty"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl,omitempty"`
	Proxied *bool  `json:"proxied,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// RecordFilter narrows ListDNSRecords. Empty fields match everything.
type RecordFilter struct {
	Name string
	Type string
}

type apiResponse struct {
	Success bool            `json:"success"`
	Errors  []apiError      `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type zoneResult struct {
	ID string `json:"id"`
}

type resultInfo struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
}

type listResponse struct {
	Success    bool       `json:"success"`
	Errors     []apiError `json:"errors"`
	Result     []Record   `json:"result"`
	ResultInfo resultInfo `json:"result_info"`
}

// NewClient creates a new Cloudflare API client.
func NewClient(apiToken string, opts ...Option) *Client {
	c := &Client{
		apiToken:   apiToken,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OwnerComment is the comment stamped on every record created for stack.
func OwnerComment(stack string) string {
	return ownerPrefix + stack
}

// GetZoneID returns the zone ID for the given domain.
func (c *Client) GetZoneID(ctx context.Context, domain string) (string, error) {
	q := url.Values{"name": {domain}}
	req, err := c.newRequest(ctx, http.MethodGet, "/zones?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	var resp apiResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("get zone ID: %w", err)
	}

	var zones []zoneResult
	if err := json.Unmarshal(resp.Result, &zones); err != nil {
		return "", fmt.Errorf("parse zones: %w", err)
	}

	if len(zones) == 0 {
		return "", fmt.Errorf("no zone found for domain %s", domain)
	}

	return zones[0].ID, nil
}

// ListDNSRecords returns the DNS records in the zone matching filter.
func (c *Client) ListDNSRecords(ctx context.Context, zoneID string, filter RecordFilter) ([]Record, error) {
	var all []Record
	page := 1

	for {
		q := url.Values{
			"per_page": {"100"},
			"page":     {fmt.Sprint(page)},
		}
		if filter.Name != "" {
			q.Set("name", filter.Name)
		}
		if filter.Type != "" {
			q.Set("type", filter.Type)
		}

		req, err := c.newRequest(ctx, http.MethodGet,
			fmt.Sprintf("/zones/%s/dns_records?%s", zoneID, q.Encode()), nil)
		if err != nil {
			return nil, err
		}

		var resp listResponse
		if err := c.do(req, &resp); err != nil {
			return nil, fmt.Errorf("list DNS records page %d: %w", page, err)
		}
		if !resp.Success {
			return nil, fmt.Errorf("list DNS records page %d: %s", page, formatErrors(resp.Errors))
		}

		all = append(all, resp.Result...)

		if page >= resp.ResultInfo.TotalPages {
			break
		}
		page++
	}

	return all, nil
}

// CreateDNSRecord creates a record and returns it with its ID.
func (c *Client) CreateDNSRecord(ctx context.Context, zoneID string, record Record) (*Record, error) {
	record.ID = ""
	return c.writeRecord(ctx, http.MethodPost, fmt.Sprintf("/zones/%s/dns_records", zoneID), record)
}

// UpdateDNSRecord overwrites the record with the given ID.
func (c *Client) UpdateDNSRecord(ctx context.Context, zoneID, recordID string, record Record) (*Record, error) {
	record.ID = ""
	return c.writeRecord(ctx, http.MethodPut, fmt.Sprintf("/zones/%s/dns_records/%s", zoneID, recordID), record)
}

// UpsertDNSRecord makes sure exactly the given name/type record exists with
// the given content. An identical record is left untouched.
func (c *Client) UpsertDNSRecord(ctx context.Context, zoneID string, record Record) (*Record, error) {
	existing, err := c.ListDNSRecords(ctx, zoneID, RecordFilter{Name: record.Name, Type: record.Type})
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return c.CreateDNSRecord(ctx, zoneID, record)
	}

	current := existing[0]
	if sameRecord(current, record) {
		return &current, nil
	}
	return c.UpdateDNSRecord(ctx, zoneID, current.ID, record)
}

// DeleteDNSRecord deletes a DNS record by ID.
func (c *Client) DeleteDNSRecord(ctx context.Context, zoneID, recordID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete,
		fmt.Sprintf("/zones/%s/dns_records/%s", zoneID, recordID), nil)
	if err != nil {
		return err
	}

	var resp apiResponse
	if err := c.do(req, &resp); err != nil {
		return fmt.Errorf("delete DNS record %s: %w", recordID, err)
	}

	return nil
}

// CleanupStackRecords deletes every record whose comment marks it as owned
// by stack. Returns the number of records deleted.
func (c *Client) CleanupStackRecords(ctx context.Context, zoneID, stack string) (int, error) {
	records, err := c.ListDNSRecords(ctx, zoneID, RecordFilter{})
	if err != nil {
		return 0, fmt.Errorf("list records: %w", err)
	}

	owner := OwnerComment(stack)
	deleted := 0
	for _, r := range records {
		if r.Comment != owner {
			continue
		}
		if err := c.DeleteDNSRecord(ctx, zoneID, r.ID); err != nil {
			return deleted, fmt.Errorf("delete record %s (%s %s): %w", r.ID, r.Type, r.Name, err)
		}
		deleted++
	}

	return deleted, nil
}

func (c *Client) writeRecord(ctx context.Context, method, path string, record Record) (*Record, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var resp apiResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("%s DNS record %s %s: %w", strings.ToLower(method), record.Type, record.Name, err)
	}

	var out Record
	if err := json.Unmarshal(resp.Result, &out); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	return &out, nil
}

func sameRecord(current, want Record) bool {
	if current.Content != want.Content || current.Comment != want.Comment {
		return false
	}
	if want.TTL != 0 && current.TTL != want.TTL {
		return false
	}
	return want.Proxied == nil || (current.Proxied != nil && *current.Proxied == *want.Proxied)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w (status %d)", err, resp.StatusCode)
	}

	if r, ok := out.(*apiResponse); ok && !r.Success {
		return fmt.Errorf("API error: %s", formatErrors(r.Errors))
	}

	return nil
}

func formatErrors(errs []apiError) string {
	if len(errs) == 0 {
		return "request was not successful"
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%d: %s", e.Code, e.Message))
	}
	return strings.Join(msgs, "; ")
}
