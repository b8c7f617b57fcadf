package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/okian/modtier/internal/domain/inspect"
	"github.com/okian/modtier/pkg/logger"
)

const defaultSubmitTimeout = 30 * time.Second

// SubmitResult counts the outcome of every submitted item.
type SubmitResult struct {
	Accepted  int64    `json:"accepted"`
	Duplicate int64    `json:"duplicate"`
	Rejected  int64    `json:"rejected"` // backpressure, safe to resubmit
	Failed    int64    `json:"failed"`
	IDs       []string `json:"ids"`
}

// Submitter posts items to a running server's /inspections endpoint with
// a fixed number of concurrent workers.
type Submitter struct {
	client    *http.Client
	url       string
	workers   int
	assignIDs bool
	logger    logger.Logger
}

// SubmitOption configures a Submitter.
type SubmitOption func(*Submitter)

// WithWorkers sets the number of concurrent requests.
func WithWorkers(n int) SubmitOption {
	return func(s *Submitter) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) SubmitOption {
	return func(s *Submitter) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithAssignIDs gives items without an ID a random one before sending, so
// a rerun after a partial failure is deduplicated by the server.
func WithAssignIDs(assign bool) SubmitOption {
	return func(s *Submitter) {
		s.assignIDs = assign
	}
}

// NewSubmitter creates a Submitter for the server at baseURL.
func NewSubmitter(baseURL string, opts ...SubmitOption) *Submitter {
	s := &Submitter{
		client:  &http.Client{Timeout: defaultSubmitTimeout},
		url:     strings.TrimRight(baseURL, "/") + "/inspections",
		workers: runtime.NumCPU(),
		logger:  logger.Named("submit"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ackResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Submit sends every item and returns the tally. IDs holds the inspection
// id of each accepted or duplicate item in input order ("" otherwise).
// IDs assigned by WithAssignIDs are written back into items.
func (s *Submitter) Submit(ctx context.Context, items []inspect.Item) SubmitResult {
	var (
		accepted, duplicate, rejected, failed atomic.Int64
		wg                                    sync.WaitGroup
	)
	ids := make([]string, len(items))
	work := make(chan int, s.workers*2)

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				ack, status, err := s.post(ctx, items[i])
				switch {
				case err != nil:
					failed.Add(1)
					s.logger.Warn(ctx, "submit failed", logger.Int("index", i), logger.Error(err))
				case status == http.StatusAccepted:
					accepted.Add(1)
					ids[i] = ack.ID
				case status == http.StatusOK && ack.Duplicate:
					duplicate.Add(1)
					ids[i] = ack.ID
				case status == http.StatusTooManyRequests:
					rejected.Add(1)
				default:
					failed.Add(1)
					s.logger.Warn(ctx, "unexpected status", logger.Int("index", i), logger.Int("status", status))
				}
			}
		}()
	}

feed:
	for i := range items {
		if s.assignIDs && items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		select {
		case <-ctx.Done():
			break feed
		case work <- i:
		}
	}
	close(work)
	wg.Wait()

	return SubmitResult{
		Accepted:  accepted.Load(),
		Duplicate: duplicate.Load(),
		Rejected:  rejected.Load(),
		Failed:    failed.Load(),
		IDs:       ids,
	}
}

func (s *Submitter) post(ctx context.Context, item inspect.Item) (ackResponse, int, error) {
	body, err := json.Marshal(item)
	if err != nil {
		return ackResponse{}, 0, fmt.Errorf("marshal item: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return ackResponse{}, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return ackResponse{}, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ackResponse{}, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	var ack ackResponse
	_ = json.Unmarshal(data, &ack)
	return ack, resp.StatusCode, nil
}

func newSubmitCommand(opts *rootOptions) *cobra.Command {
	var (
		baseURL   string
		itemsPath string
		workers   int
		timeout   time.Duration
		assignIDs bool
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit items from a JSON array to a running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.checkOutput(); err != nil {
				return err
			}
			var items []inspect.Item
			if err := readJSON(cmd.InOrStdin(), itemsPath, &items); err != nil {
				return err
			}
			res := NewSubmitter(baseURL,
				WithWorkers(workers),
				WithTimeout(timeout),
				WithAssignIDs(assignIDs),
			).Submit(cmd.Context(), items)

			out := cmd.OutOrStdout()
			if opts.output == outputJSON {
				if err := writeJSON(out, res); err != nil {
					return err
				}
			} else if _, err := fmt.Fprintf(out, "accepted=%d duplicate=%d rejected=%d failed=%d\n",
				res.Accepted, res.Duplicate, res.Rejected, res.Failed); err != nil {
				return err
			}
			if res.Failed > 0 {
				return fmt.Errorf("%d of %d items failed", res.Failed, len(items))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:9080", "Base URL of the server")
	cmd.Flags().StringVar(&itemsPath, "items", "-", "JSON array of items, - for stdin")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Concurrent requests")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultSubmitTimeout, "Per-request timeout")
	cmd.Flags().BoolVar(&assignIDs, "assign-ids", true, "Give items without an id a random one")
	return cmd
}
