// Package intel enriches extracted URLs and domains with reputation and
// registration data from external services. Lookups are strictly
// opt-in: nothing here runs unless an API key is configured, since
// querying a third party leaks indicators from the case.
package intel

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Sentinel errors for lookup failures the caller may branch on.
var (
	ErrNoAPIKey    = errors.New("intel: no api key configured")
	ErrNotFound    = errors.New("intel: resource not known to service")
	ErrRateLimited = errors.New("intel: rate limited")
)

const (
	defaultVirusTotalBase = "https://www.virustotal.com/api/v3"
	defaultIp2WhoisBase   = "https://api.ip2whois.com/v2"
	maxResponseBytes      = 4 << 20
)

// URLReport is the distilled verdict for one URL or domain.
type URLReport struct {
	Resource   string
	Malicious  int64
	Suspicious int64
	Harmless   int64
	Undetected int64
	Categories []string
	Reputation int64
	FetchedAt  time.Time
}

// Verdict is a coarse label derived from the detection counts.
func (r *URLReport) Verdict() string {
	switch {
	case r.Malicious > 0:
		return "malicious"
	case r.Suspicious > 0:
		return "suspicious"
	default:
		return "clean"
	}
}

// WhoisReport is the distilled registration record for one domain.
type WhoisReport struct {
	Domain      string
	Registrar   string
	CreatedAt   string
	UpdatedAt   string
	ExpiresAt   string
	Status      string
	Nameservers []string
	FetchedAt   time.Time
}

// Client talks to the reputation services. Both keys are optional; a
// lookup against a service without a key fails with ErrNoAPIKey.
type Client struct {
	httpClient *http.Client

	vtKey     string
	vtBase    string
	whoisKey  string
	whoisBase string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithVirusTotalBase points VirusTotal calls at an alternate endpoint.
func WithVirusTotalBase(base string) Option {
	return func(c *Client) { c.vtBase = strings.TrimRight(base, "/") }
}

// WithIp2WhoisBase points Ip2Whois calls at an alternate endpoint.
func WithIp2WhoisBase(base string) Option {
	return func(c *Client) { c.whoisBase = strings.TrimRight(base, "/") }
}

// NewClient builds a Client with the given service keys.
func NewClient(virusTotalKey, ip2whoisKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		vtKey:      virusTotalKey,
		vtBase:     defaultVirusTotalBase,
		whoisKey:   ip2whoisKey,
		whoisBase:  defaultIp2WhoisBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LookupURL fetches the VirusTotal analysis for rawURL. The v3 API
// addresses URLs by the unpadded base64 of the URL itself.
func (c *Client) LookupURL(ctx context.Context, rawURL string) (*URLReport, error) {
	if c.vtKey == "" {
		return nil, ErrNoAPIKey
	}
	id := base64.RawURLEncoding.EncodeToString([]byte(rawURL))
	body, err := c.virusTotalGet(ctx, fmt.Sprintf("%s/urls/%s", c.vtBase, id))
	if err != nil {
		return nil, err
	}
	return parseURLReport(rawURL, body), nil
}

// LookupDomain fetches the VirusTotal analysis for a bare domain.
func (c *Client) LookupDomain(ctx context.Context, domain string) (*URLReport, error) {
	if c.vtKey == "" {
		return nil, ErrNoAPIKey
	}
	body, err := c.virusTotalGet(ctx, fmt.Sprintf("%s/domains/%s", c.vtBase, url.PathEscape(domain)))
	if err != nil {
		return nil, err
	}
	return parseURLReport(domain, body), nil
}

func (c *Client) virusTotalGet(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "intel: build request")
	}
	req.Header.Set("x-apikey", c.vtKey)
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

// Whois fetches the Ip2Whois registration record for domain.
func (c *Client) Whois(ctx context.Context, domain string) (*WhoisReport, error) {
	if c.whoisKey == "" {
		return nil, ErrNoAPIKey
	}
	endpoint := fmt.Sprintf("%s/?key=%s&domain=%s", c.whoisBase,
		url.QueryEscape(c.whoisKey), url.QueryEscape(domain))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "intel: build request")
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return parseWhoisReport(domain, body), nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "intel: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "intel: read response")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, errors.Errorf("intel: service returned %s", resp.Status)
	}
}

func parseURLReport(resource string, body []byte) *URLReport {
	attrs := gjson.GetBytes(body, "data.attributes")
	stats := attrs.Get("last_analysis_stats")

	report := &URLReport{
		Resource:   resource,
		Malicious:  stats.Get("malicious").Int(),
		Suspicious: stats.Get("suspicious").Int(),
		Harmless:   stats.Get("harmless").Int(),
		Undetected: stats.Get("undetected").Int(),
		Reputation: attrs.Get("reputation").Int(),
		FetchedAt:  time.Now().UTC(),
	}
	attrs.Get("categories").ForEach(func(_, value gjson.Result) bool {
		report.Categories = append(report.Categories, value.String())
		return true
	})
	return report
}

func parseWhoisReport(domain string, body []byte) *WhoisReport {
	root := gjson.ParseBytes(body)
	report := &WhoisReport{
		Domain:    domain,
		Registrar: root.Get("registrar.name").String(),
		CreatedAt: root.Get("create_date").String(),
		UpdatedAt: root.Get("update_date").String(),
		ExpiresAt: root.Get("expire_date").String(),
		Status:    root.Get("status").String(),
		FetchedAt: time.Now().UTC(),
	}
	for _, ns := range root.Get("nameservers").Array() {
		report.Nameservers = append(report.Nameservers, ns.String())
	}
	return report
}
