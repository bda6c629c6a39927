// Package bundle talks to the bulk-import service that downloads
// customer diagnostic bundles remotely and parses them into inventory
// rows. The compute core only ever sees the resulting row batches; job
// transport and scheduling live entirely on the service side.
package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/meshwise/meshcost/internal/model"
)

// State values reported by the import service.
const (
	StateProcessing = "processing"
	StateCompleted  = "completed"
	StateFailed     = "failed"
)

var ErrJobFailed = errors.New("bundle import job failed")

// Link is one downloadable bundle: a URL plus the archive password.
type Link struct {
	URL      string `json:"url"`
	Password string `json:"password,omitempty"`
}

// RowBatch is the parsed inventory from one bundle.
type RowBatch struct {
	Source     string               `json:"source"`
	Namespaces []model.NamespaceRow `json:"namespaces"`
	Nodes      []model.NodeRow      `json:"nodes"`
}

// Status is one poll of a submitted job.
type Status struct {
	State          string     `json:"state"`
	LinksProcessed int        `json:"links_processed"`
	LinksTotal     int        `json:"links_total"`
	Error          string     `json:"error,omitempty"`
	Batches        []RowBatch `json:"batches,omitempty"`
}

// Client is an HTTP client for the import service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type submitRequest struct {
	Links []Link `json:"links"`
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

// Submit posts the download links and returns the job identifier.
func (c *Client) Submit(ctx context.Context, links []Link) (string, error) {
	if len(links) == 0 {
		return "", fmt.Errorf("no bundle links provided")
	}

	body, err := json.Marshal(submitRequest{Links: links})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/imports", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("submitting import job: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("import service returned %d", resp.StatusCode)
	}

	var sr submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("decoding submit response: %w", err)
	}
	if sr.JobID == "" {
		return "", fmt.Errorf("import service returned no job id")
	}
	return sr.JobID, nil
}

// Status fetches the current state of a job.
func (c *Client) Status(ctx context.Context, jobID string) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/imports/"+jobID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polling import job: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("import service returned %d for job %s", resp.StatusCode, jobID)
	}

	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("decoding job status: %w", err)
	}
	return &st, nil
}

// Wait polls the job until it completes or fails. The progress callback
// (optional) is invoked after each poll while the job is processing. A
// failed job returns ErrJobFailed wrapped with the service's message.
func (c *Client) Wait(ctx context.Context, jobID string, interval time.Duration, progress func(processed, total int)) (*Status, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		st, err := c.Status(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch st.State {
		case StateCompleted:
			return st, nil
		case StateFailed:
			return nil, fmt.Errorf("%w: %s", ErrJobFailed, st.Error)
		case StateProcessing:
			if progress != nil {
				progress(st.LinksProcessed, st.LinksTotal)
			}
		default:
			return nil, fmt.Errorf("unknown job state %q", st.State)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
