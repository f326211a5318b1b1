package cli

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/boomhacked/BrowserHunter/internal/intel"
)

// Execute implements the go-flags Commander interface for LookupCommand.
func (c *LookupCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	if c.URL == "" && c.Domain == "" {
		return fmt.Errorf("--url or --domain is required")
	}
	if c.Whois && c.Domain == "" {
		return fmt.Errorf("--whois requires --domain")
	}

	timeout := time.Duration(cfg.Intel.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := intel.NewClient(cfg.Intel.VirusTotalAPIKey, cfg.Intel.Ip2WhoisAPIKey,
		intel.WithHTTPClient(&http.Client{Timeout: timeout}))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if c.Whois {
		return c.printWhois(ctx, client)
	}
	return c.printReputation(ctx, client)
}

func (c *LookupCommand) printReputation(ctx context.Context, client *intel.Client) error {
	var (
		report *intel.URLReport
		err    error
	)
	if c.URL != "" {
		report, err = client.LookupURL(ctx, c.URL)
	} else {
		report, err = client.LookupDomain(ctx, c.Domain)
	}
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(report)
	}

	fmt.Printf("Resource:   %s\n", report.Resource)
	fmt.Printf("Verdict:    %s\n", report.Verdict())
	fmt.Printf("Malicious:  %d\n", report.Malicious)
	fmt.Printf("Suspicious: %d\n", report.Suspicious)
	fmt.Printf("Harmless:   %d\n", report.Harmless)
	fmt.Printf("Reputation: %d\n", report.Reputation)
	if len(report.Categories) > 0 {
		fmt.Printf("Categories: %s\n", strings.Join(report.Categories, ", "))
	}
	return nil
}

func (c *LookupCommand) printWhois(ctx context.Context, client *intel.Client) error {
	report, err := client.Whois(ctx, c.Domain)
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(report)
	}

	fmt.Printf("Domain:      %s\n", report.Domain)
	fmt.Printf("Registrar:   %s\n", report.Registrar)
	fmt.Printf("Created:     %s\n", report.CreatedAt)
	fmt.Printf("Updated:     %s\n", report.UpdatedAt)
	fmt.Printf("Expires:     %s\n", report.ExpiresAt)
	if report.Status != "" {
		fmt.Printf("Status:      %s\n", report.Status)
	}
	if len(report.Nameservers) > 0 {
		fmt.Printf("Nameservers: %s\n", strings.Join(report.Nameservers, ", "))
	}
	return nil
}
