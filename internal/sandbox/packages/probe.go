package packages

import (
	"context"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

// ProbeResult is the reachability status of one pinned package.
type ProbeResult struct {
	Specifier string `json:"specifier"`
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
	Status    int    `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Prober checks that the CDN pins actually serve. Transport-level retries are
// fine here; these are idempotent HEAD requests against a CDN.
type Prober struct {
	client *resty.Client
}

// NewProber creates a prober with a retrying transport.
func NewProber() *Prober {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	client := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("User-Agent", "SketchForge-Probe/1.0")
	client.SetTransport(retryClient.HTTPClient.Transport)

	return &Prober{client: client}
}

// Check probes every pin concurrently and returns results sorted by specifier.
func (p *Prober) Check(ctx context.Context) []ProbeResult {
	pins := All()
	results := make([]ProbeResult, len(pins))

	var wg sync.WaitGroup
	for i, pin := range pins {
		wg.Add(1)
		go func(i int, pin Pin) {
			defer wg.Done()
			results[i] = p.checkOne(ctx, pin)
		}(i, pin)
	}
	wg.Wait()
	return results
}

func (p *Prober) checkOne(ctx context.Context, pin Pin) ProbeResult {
	result := ProbeResult{Specifier: pin.Specifier, URL: pin.URL}

	resp, err := p.client.R().SetContext(ctx).Head(pin.URL)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Status = resp.StatusCode()
	result.Reachable = resp.StatusCode() >= 200 && resp.StatusCode() < 400
	return result
}
