// Package upstream talks to the HMS service that owns cases, hospitals and
// accounts.
package upstream

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
	"time"

	"github.com/rs/zerolog"

	"smartcare/internal/hospitals"
	"smartcare/internal/queue"
)

// Upstream endpoints.
const (
	EndpointEmergencyCases = "/api/emergency-cases/"
	EndpointDoctorCases    = "/api/doctor-cases/"
	EndpointHospitals      = "/api/hospitals/"
)

const userAgent = "SmartCare-Frontend/1.0"

// Client fetches from the upstream HMS. Fetch failures are logged and
// degrade to empty results; they are never returned to callers.
type Client struct {
	baseURL   string
	http      *http.Client
	log       zerolog.Logger
	onFailure func(endpoint string)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithFailureHook registers a callback run on every failed fetch.
func WithFailureHook(f func(endpoint string)) Option {
	return func(c *Client) { c.onFailure = f }
}

// New creates a client for the service at baseURL.
func New(baseURL string, timeout time.Duration, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
		log: logger.With().Str("component", "upstream").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type casesResponse struct {
	Cases []queue.CaseRecord `json:"cases"`
}

type hospitalsResponse struct {
	Hospitals []hospitals.Record `json:"hospitals"`
}

// EmergencyCases returns the active emergency queue in upstream order.
func (c *Client) EmergencyCases(ctx context.Context) []queue.CaseRecord {
	var resp casesResponse
	if err := c.getJSON(ctx, EndpointEmergencyCases, "", &resp); err != nil {
		c.fail(EndpointEmergencyCases, err)
		return []queue.CaseRecord{}
	}
	return nonNil(resp.Cases)
}

// DoctorCases returns the cases assigned to the doctor whose upstream
// session cookie is passed through.
func (c *Client) DoctorCases(ctx context.Context, cookie string) []queue.CaseRecord {
	var resp casesResponse
	if err := c.getJSON(ctx, EndpointDoctorCases, cookie, &resp); err != nil {
		c.fail(EndpointDoctorCases, err)
		return []queue.CaseRecord{}
	}
	return nonNil(resp.Cases)
}

// Hospitals returns the active hospital network.
func (c *Client) Hospitals(ctx context.Context) []hospitals.Record {
	var resp hospitalsResponse
	if err := c.getJSON(ctx, EndpointHospitals, "", &resp); err != nil {
		c.fail(EndpointHospitals, err)
		return []hospitals.Record{}
	}
	if resp.Hospitals == nil {
		return []hospitals.Record{}
	}
	return resp.Hospitals
}

// CaseUpdatePath returns the upstream form action for a case status change.
func CaseUpdatePath(caseID int) string {
	return "/doctor/case/" + strconv.Itoa(caseID) + "/update/"
}

// SubmitCaseStatus posts a status change for a case. The upstream response
// is not inspected; a failure to deliver is only logged.
func (c *Client) SubmitCaseStatus(ctx context.Context, caseID int, status, csrfToken, cookie string) {
	path := CaseUpdatePath(caseID)
	form := url.Values{}
	form.Set("csrfmiddlewaretoken", csrfToken)
	form.Set("status", status)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		c.fail(path, err)
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", c.baseURL+"/doctor/dashboard/")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.fail(path, err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	c.log.Info().Int("case_id", caseID).Str("status", status).Int("upstream_status", resp.StatusCode).Msg("case status submitted")
}

// Ping checks that the upstream answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) getJSON(ctx context.Context, path, cookie string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) fail(endpoint string, err error) {
	c.log.Error().Err(err).Str("endpoint", endpoint).Msg("upstream request failed")
	if c.onFailure != nil {
		c.onFailure(endpoint)
	}
}

func nonNil(cases []queue.CaseRecord) []queue.CaseRecord {
	if cases == nil {
		return []queue.CaseRecord{}
	}
	return cases
}
