// Package cms talks to a headless-CMS REST backend. Every entity is a
// resource under one base URL; list endpoints are paged.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/AchilleasB/creche-admin/console-service/internal/config"
	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
)

const perPage = 100

// Resource names on the CMS.
const (
	ResourceFacility    = "creche"
	ResourceStaff       = "staff"
	ResourceStudent     = "student"
	ResourceApplication = "application"
	ResourceEvent       = "event"
	ResourceTicket      = "support_request"
	ResourceComment     = "ticket_comment"
	ResourceArticle     = "help_article"
	ResourceAttendance  = "attendance"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		cb:      config.NewCircuitBreaker(config.BreakerCMS),
	}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// do sends one request. Transport failures and 5xx answers count against the
// breaker; 4xx answers are the caller's problem and do not.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) (http.Header, error) {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		payload = b
	}

	target := c.baseURL + "/" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	result, err := c.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		r := &response{status: resp.StatusCode, header: resp.Header, body: body}
		if resp.StatusCode >= 500 {
			return r, backendError(r)
		}
		return r, nil
	})
	if err != nil {
		var be *domain.BackendError
		if errors.As(err, &be) {
			return nil, be
		}
		return nil, &domain.BackendError{Status: http.StatusBadGateway, Message: "cms unavailable: " + err.Error()}
	}

	r := result.(*response)
	if r.status == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	if r.status >= 300 {
		return nil, backendError(r)
	}
	if out != nil && len(r.body) > 0 {
		if err := json.Unmarshal(r.body, out); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return r.header, nil
}

// backendError keeps the CMS's own message so the user sees it verbatim.
func backendError(r *response) *domain.BackendError {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(r.body, &body); err == nil && body.Message != "" {
		return &domain.BackendError{Status: r.status, Message: body.Message}
	}
	return &domain.BackendError{Status: r.status, Message: fmt.Sprintf("cms request failed: %d", r.status)}
}

// totalPages reads the page count header. A missing or garbled header means
// a single page.
func totalPages(h http.Header) int {
	for _, name := range []string{"X-WP-TotalPages", "X-Total-Pages"} {
		if v := h.Get(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return n
			}
		}
	}
	return 1
}

// listAll walks every page of a resource.
func listAll[T any](ctx context.Context, c *Client, resource string, extra url.Values) ([]T, error) {
	out := make([]T, 0)
	for page, pages := 1, 1; page <= pages; page++ {
		query := url.Values{}
		for k, v := range extra {
			query[k] = v
		}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(perPage))

		var batch []T
		header, err := c.do(ctx, http.MethodGet, resource, query, nil, &batch)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		pages = totalPages(header)
	}
	return out, nil
}
