package testuploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	visionadapter "github.com/okian/ballmaster/internal/adapters/vision"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(url string) (*http.Response, error) {
	return c.client.Get(url)
}

// PostVideo uploads one replay document as a multipart video form.
func (c *HTTPClient) PostVideo(url, filename string, doc visionadapter.Document) (*http.Response, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("video", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if err := visionadapter.EncodeDocument(part, doc); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequest("POST", url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.client.Do(req)
}

// envelope is the service's standard JSON response wrapper.
type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Timestamp string          `json:"timestamp"`
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// uploadVideos uploads all generated videos concurrently using a worker pool.
func uploadVideos(ctx context.Context, config *Config, videos []Video, stats *Stats) error {
	log.Printf("📤 Uploading %d videos with %d workers...", len(videos), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/upload"

	var (
		submitted  int64
		ranked     int64
		unranked   int64
		duplicate  int64
		busy       int64
		failed     int64
		mismatched int64
	)

	videoChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range videoChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				v := videos[index]
				outcome, data := uploadSingleVideo(client, url, v)

				atomic.AddInt64(&submitted, 1)
				switch outcome {
				case "ranked":
					atomic.AddInt64(&ranked, 1)
				case "unranked":
					atomic.AddInt64(&unranked, 1)
				case "duplicate":
					atomic.AddInt64(&duplicate, 1)
				case "busy":
					atomic.AddInt64(&busy, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}

				if data != nil && data.TotalKicks != v.WantKicks {
					atomic.AddInt64(&mismatched, 1)
					log.Printf("⚠️  %s: expected %d kicks, service reported %d",
						v.Name, v.WantKicks, data.TotalKicks)
				}

				if config.Verbose && data != nil {
					log.Printf("📊 %s: kicks=%d series=%d score=%.2f ranked=%v",
						v.Name, data.TotalKicks, data.TotalSeries, data.Score, data.Ranked)
				}
			}
		}()
	}

	go func() {
		defer close(videoChan)
		for i := range videos {
			select {
			case <-ctx.Done():
				return
			case videoChan <- i:
			}
		}
	}()

	wg.Wait()

	stats.UploadsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.UploadsRanked = int(atomic.LoadInt64(&ranked))
	stats.UploadsUnranked = int(atomic.LoadInt64(&unranked))
	stats.UploadsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.UploadsBusy = int(atomic.LoadInt64(&busy))
	stats.UploadsFailed = int(atomic.LoadInt64(&failed))
	stats.KickMismatches = int(atomic.LoadInt64(&mismatched))

	log.Printf(`✅ Video upload completed:
   Ranked: %d
   Unranked: %d
   Duplicate: %d
   Busy: %d
   Failed: %d
   Kick mismatches: %d
`, stats.UploadsRanked, stats.UploadsUnranked, stats.UploadsDuplicate,
		stats.UploadsBusy, stats.UploadsFailed, stats.KickMismatches)

	return nil
}

// uploadSingleVideo uploads one video, retrying while the service is
// saturated, and returns the outcome plus the parsed payload when the
// upload was analyzed.
func uploadSingleVideo(client *HTTPClient, url string, v Video) (string, *UploadData) {
	for attempt := 0; attempt < BusyRetryLimit; attempt++ {
		resp, err := client.PostVideo(url, v.Name, v.Doc)
		if err != nil {
			return "failed", nil
		}

		body, err := readResponseBody(resp)
		if err != nil {
			return "failed", nil
		}

		switch resp.StatusCode {
		case StatusOK:
			var env envelope
			if err := json.Unmarshal(body, &env); err != nil {
				return "failed", nil
			}
			var data UploadData
			if err := json.Unmarshal(env.Data, &data); err != nil {
				return "failed", nil
			}
			if data.Ranked {
				return "ranked", &data
			}
			return "unranked", &data
		case StatusConflict:
			return "duplicate", nil
		case StatusTooMany:
			time.Sleep(BusyRetryDelay)
			continue
		default:
			return "failed", nil
		}
	}
	return "busy", nil
}

// getLeaderboard retrieves the top N leaderboard entries.
func getLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	log.Printf("🥇 Getting top %d leaderboard entries...", config.TopN)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/results"
	if config.TopN > 0 {
		url = fmt.Sprintf("%s?limit=%d", url, config.TopN)
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var data struct {
		Results []Entry `json:"results"`
		Count   int     `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}

	stats.LeaderboardEntries = len(data.Results)
	log.Printf("✅ Retrieved %d leaderboard entries", len(data.Results))

	return data.Results, nil
}
