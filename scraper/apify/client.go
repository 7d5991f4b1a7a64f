package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hamzayazough/centris-scraper/config"
	"github.com/hamzayazough/centris-scraper/models"
	"github.com/hamzayazough/centris-scraper/utils"
)

const defaultBaseURL = "https://api.apify.com"

// terminal actor-run statuses per the Apify API
const (
	statusSucceeded = "SUCCEEDED"
	statusFailed    = "FAILED"
	statusAborted   = "ABORTED"
	statusTimedOut  = "TIMED-OUT"
)

// Client talks to the Apify v2 REST API: it starts an actor run, waits for
// it to finish, and streams the resulting dataset. Retry and back-off only
// wrap idempotent reads; starting a run is never retried blindly.
type Client struct {
	baseURL      string
	token        string
	actorID      string
	httpClient   *http.Client
	logger       *utils.Logger
	retry        *utils.RetryConfig
	pollInterval time.Duration
}

// New creates a ready-to-use Apify client from the application config.
func New(cfg *config.Config, logger *utils.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		token:      cfg.ApifyToken,
		actorID:    cfg.ActorID,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		pollInterval: time.Duration(cfg.PollIntervalMs) * time.Millisecond,
	}
}

// RunInput is the run configuration submitted to the actor.
type RunInput struct {
	StartURLs []StartURL  `json:"startUrls"`
	MaxItems  int         `json:"maxItems"`
	Sort      string      `json:"sort"`
	Proxy     ProxyConfig `json:"proxy"`
}

// StartURL is one seed query URL.
type StartURL struct {
	URL string `json:"url"`
}

// ProxyConfig toggles the provider-side proxy pool.
type ProxyConfig struct {
	UseApifyProxy bool `json:"useApifyProxy"`
}

// InputFromConfig builds the actor input from the application config.
func InputFromConfig(cfg *config.Config) RunInput {
	return RunInput{
		StartURLs: []StartURL{{URL: cfg.StartURL}},
		MaxItems:  cfg.MaxItems,
		Sort:      cfg.SortOrder,
		Proxy:     ProxyConfig{UseApifyProxy: cfg.UseProxy},
	}
}

// RunInfo describes an actor run.
type RunInfo struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

type runEnvelope struct {
	Data RunInfo `json:"data"`
}

// RunActor starts the configured actor with the given input and blocks until
// the run reaches a terminal status. Any status other than SUCCEEDED is an
// error.
func (c *Client) RunActor(ctx context.Context, input RunInput) (*RunInfo, error) {
	c.logger.Info("[apify] starting actor %s (maxItems=%d)", c.actorID, input.MaxItems)

	startURL := fmt.Sprintf("%s/v2/acts/%s/runs?token=%s", c.baseURL, c.actorID, c.token)
	run, err := c.postRun(ctx, startURL, input)
	if err != nil {
		return nil, fmt.Errorf("apify: start actor: %w", err)
	}

	for !isTerminal(run.Status) {
		select {
		case <-time.After(c.pollInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		run, err = c.fetchRun(ctx, run.ID)
		if err != nil {
			return nil, fmt.Errorf("apify: poll run: %w", err)
		}
		c.logger.Debug("[apify] run %s status: %s", run.ID, run.Status)
	}

	if run.Status != statusSucceeded {
		return nil, fmt.Errorf("apify: run %s finished with status %s", run.ID, run.Status)
	}

	c.logger.Info("[apify] run %s succeeded — dataset %s", run.ID, run.DefaultDatasetID)
	return run, nil
}

func isTerminal(status string) bool {
	switch status {
	case statusSucceeded, statusFailed, statusAborted, statusTimedOut:
		return true
	}
	return false
}

func (c *Client) postRun(ctx context.Context, url string, input RunInput) (*RunInfo, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var env runEnvelope
	if err := c.doJSON(req, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) fetchRun(ctx context.Context, runID string) (*RunInfo, error) {
	url := fmt.Sprintf("%s/v2/actor-runs/%s?token=%s", c.baseURL, runID, c.token)

	var env runEnvelope
	err := c.retry.Do(ctx, "apify run status", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		return c.doJSON(req, &env)
	})
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// DatasetItems returns a lazy iterator over the dataset's items. The
// iterator is finite and single-pass; re-reading requires a new iterator.
func (c *Client) DatasetItems(ctx context.Context, datasetID string) *DatasetIterator {
	return &DatasetIterator{
		client:    c,
		ctx:       ctx,
		datasetID: datasetID,
		pageSize:  100,
	}
}

// FetchListings submits the configured run and returns an iterator over the
// resulting listings once the run completes.
func (c *Client) FetchListings(ctx context.Context, input RunInput) (*DatasetIterator, error) {
	run, err := c.RunActor(ctx, input)
	if err != nil {
		return nil, err
	}
	return c.DatasetItems(ctx, run.DefaultDatasetID), nil
}

// DatasetIterator pages through a dataset on demand, yielding one raw
// listing per Next call.
type DatasetIterator struct {
	client    *Client
	ctx       context.Context
	datasetID string
	pageSize  int

	buf      []models.RawListing
	pos      int
	offset   int
	lastPage bool
}

// Next returns the next listing. ok is false once the dataset is exhausted.
func (it *DatasetIterator) Next() (models.RawListing, bool, error) {
	if it.pos >= len(it.buf) {
		if it.lastPage {
			return models.RawListing{}, false, nil
		}
		if err := it.fetchPage(); err != nil {
			return models.RawListing{}, false, err
		}
		if len(it.buf) == 0 {
			return models.RawListing{}, false, nil
		}
	}

	l := it.buf[it.pos]
	it.pos++
	return l, true, nil
}

func (it *DatasetIterator) fetchPage() error {
	url := fmt.Sprintf("%s/v2/datasets/%s/items?format=json&clean=true&offset=%d&limit=%d&token=%s",
		it.client.baseURL, it.datasetID, it.offset, it.pageSize, it.client.token)

	var page []models.RawListing
	err := it.client.retry.Do(it.ctx, "apify dataset page", func() error {
		req, err := http.NewRequestWithContext(it.ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		page = page[:0]
		return it.client.doJSON(req, &page)
	})
	if err != nil {
		return fmt.Errorf("apify: dataset items at offset %d: %w", it.offset, err)
	}

	it.buf = page
	it.pos = 0
	it.offset += len(page)
	it.lastPage = len(page) < it.pageSize
	return nil
}
