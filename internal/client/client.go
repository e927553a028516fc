// Package client is a Go client for the storefront API. Product listings
// are sequence-tagged so a slow response can never overwrite a newer one.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"foodstore/internal/domain/entity"
)

// ErrStaleResponse is returned for a listing that completed after a newer
// listing was already delivered.
var ErrStaleResponse = errors.New("stale response discarded")

// ErrSeqMismatch is returned when the server echoes a sequence number other
// than the one the request carried.
var ErrSeqMismatch = errors.New("response sequence does not match request")

const seqHeader = "X-Request-Seq"

type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type ListParams struct {
	Page     int
	Limit    int
	Category string
	Search   string
	SortBy   string
	Order    string
}

type ProductPage struct {
	Products    []*entity.Product `json:"products"`
	CurrentPage int               `json:"currentPage"`
	TotalItems  int               `json:"totalItems"`
	TotalPages  int               `json:"totalPages"`
	Seq         int64             `json:"-"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	issued atomic.Int64

	mu        sync.Mutex
	delivered int64
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListProducts fetches one catalog page. It returns ErrStaleResponse when
// a listing issued later has already been delivered.
func (c *Client) ListProducts(ctx context.Context, p ListParams) (*ProductPage, error) {
	seq := c.issued.Add(1)

	q := url.Values{}
	setInt(q, "page", p.Page)
	setInt(q, "limit", p.Limit)
	setString(q, "category", p.Category)
	setString(q, "search", p.Search)
	setString(q, "sortBy", p.SortBy)
	setString(q, "order", p.Order)
	q.Set("seq", strconv.FormatInt(seq, 10))

	var listing struct {
		ProductPage
		Echo string `json:"seq"`
	}
	header, err := c.get(ctx, "/api/products?"+q.Encode(), seq, &listing)
	if err != nil {
		return nil, err
	}

	echo := header.Get(seqHeader)
	if echo == "" {
		echo = listing.Echo
	}
	if want := strconv.FormatInt(seq, 10); echo != "" && echo != want {
		return nil, fmt.Errorf("%w: sent %s, got %s", ErrSeqMismatch, want, echo)
	}

	page := listing.ProductPage
	page.Seq = seq

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.delivered {
		return nil, ErrStaleResponse
	}
	c.delivered = seq
	return &page, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	if _, err := c.get(ctx, "/api/products/"+url.PathEscape(id), 0, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// get decodes a JSON response into dest and returns the response headers.
func (c *Client) get(ctx context.Context, path string, seq int64, dest interface{}) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if seq > 0 {
		req.Header.Set(seqHeader, strconv.FormatInt(seq, 10))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.Header, nil
}

func decodeError(status int, body []byte) error {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(body, &e)
	msg := e.Message
	if msg == "" {
		msg = e.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}

func setInt(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, strconv.Itoa(v))
	}
}

func setString(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}
