// Package extract talks to a Firecrawl-style extraction API that turns job
// board result pages into structured postings.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/posting"
)

const (
	apiURL      = "https://api.firecrawl.dev"
	extractPath = "/v2/extract"
	contentType = "application/json"
	userAgent   = "jobscout (https://github.com/jobscout/jobscout)"

	// chunkSize bounds the number of source URLs sent per extract request.
	chunkSize = 10
	// DefaultPages is the number of result pages requested per job board.
	DefaultPages = 3
)

// extractPrompt instructs the API which fields to pull from each listing.
const extractPrompt = `Extract job postings. Fields:
- job_title
- company
- location
- experience (years required, if any; else 'N/A')
- compensation (salary/hourly range if listed, else 'N/A')
- link
- description (FULL job description if available; if missing, summarize responsibilities and requirements from listing)
Return as JSON under 'job_postings'.`

// Params describes one extraction run. Skills are forwarded purely as prompt
// context for the later analysis step; the extraction itself ignores them.
type Params struct {
	Title    string
	Location string
	Skills   []string
	Pages    int
}

type Client struct {
	token  string
	logger *zap.Logger

	HTTPClient *http.Client
	UserAgent  string
	APIURL     string

	// OnChunk, when set, is called after every chunk attempt with the number
	// of chunks finished and the total. Used for progress reporting.
	OnChunk func(done, total int)
}

func New(logger *zap.Logger, token string) *Client {
	return &Client{
		token:  token,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		UserAgent: userAgent,
		APIURL:    apiURL,
	}
}

// Extract scrapes up to 4*Pages board result pages in chunks and aggregates
// every chunk's postings. A failed chunk is logged and skipped; the call
// errors only when every chunk failed. The result is raw: unranked and
// possibly containing duplicates.
func (c *Client) Extract(ctx context.Context, params *Params) ([]posting.Posting, error) {
	if params == nil {
		return nil, fmt.Errorf("extraction params are required")
	}

	urls := boardURLs(params.Title, params.Location, params.Pages)
	chunks := chunk(urls, chunkSize)

	var postings []posting.Posting
	failed := 0
	var lastErr error

	for i, urlsChunk := range chunks {
		batch, err := c.extractChunk(ctx, urlsChunk)
		if err != nil {
			failed++
			lastErr = err
			c.logger.Warn("extraction chunk failed",
				zap.Int("chunk", i+1),
				zap.Int("chunks_total", len(chunks)),
				zap.Error(err),
			)
		} else {
			postings = append(postings, batch...)
			c.logger.Debug("extraction chunk done",
				zap.Int("chunk", i+1),
				zap.Int("urls", len(urlsChunk)),
				zap.Int("postings", len(batch)),
			)
		}

		if c.OnChunk != nil {
			c.OnChunk(i+1, len(chunks))
		}
	}

	if failed == len(chunks) && len(chunks) > 0 {
		return nil, fmt.Errorf("all %d extraction chunks failed: %w", failed, lastErr)
	}

	c.logger.Info("raw postings extracted",
		zap.Int("count", len(postings)),
		zap.Int("failed_chunks", failed),
	)

	return postings, nil
}

type extractRequest struct {
	URLs              []string       `json:"urls"`
	Prompt            string         `json:"prompt"`
	Schema            map[string]any `json:"schema"`
	EnableWebSearch   bool           `json:"enableWebSearch"`
	IgnoreInvalidURLs bool           `json:"ignoreInvalidURLs"`
}

type extractResponse struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
	Error   string         `json:"error"`
}

func (c *Client) extractChunk(ctx context.Context, urls []string) ([]posting.Posting, error) {
	payload, err := json.Marshal(extractRequest{
		URLs:              urls,
		Prompt:            extractPrompt,
		Schema:            postingsSchema(),
		IgnoreInvalidURLs: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+extractPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	c.logger.Debug("make extract request", zap.String("url", req.URL.String()), zap.Int("urls", len(urls)))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var response extractResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, err
	}

	if !response.Success {
		return nil, fmt.Errorf("extraction rejected: %s", response.Error)
	}

	// A successful chunk with no data contributes zero postings.
	if response.Data == nil {
		return nil, nil
	}

	return decodePostings(response.Data["job_postings"])
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.UserAgent)
}

// decodePostings converts the loosely typed job_postings payload into posting
// structs, tolerating missing or oddly typed fields.
func decodePostings(raw any) ([]posting.Posting, error) {
	if raw == nil {
		return nil, nil
	}

	var postings []posting.Posting
	cfg := &mapstructure.DecoderConfig{
		Result:           &postings,
		TagName:          "json",
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode job_postings: %w", err)
	}

	return postings, nil
}

// boardURLs generates the result page URLs for every supported job board,
// 4 per requested page.
func boardURLs(title, location string, pages int) []string {
	if pages <= 0 {
		pages = DefaultPages
	}

	q := strings.ReplaceAll(title, " ", "+")
	loc := strings.ReplaceAll(location, " ", "+")

	urls := make([]string, 0, 4*pages)
	for p := 1; p <= pages; p++ {
		urls = append(urls,
			fmt.Sprintf("https://www.ziprecruiter.com/candidate/search?search=%s&location=%s&page=%d", q, loc, p),
			fmt.Sprintf("https://www.glassdoor.com/Job/jobs.htm?sc.keyword=%s&locT=C&locKeyword=%s&p=%d", q, loc, p),
			fmt.Sprintf("https://www.wayup.com/s/jobs/?title=%s&location=%s&page=%d", q, loc, p),
			fmt.Sprintf("https://joinhandshake.com/students/jobs/?q=%s&location=%s&page=%d", q, loc, p),
		)
	}
	return urls
}

func chunk(urls []string, size int) [][]string {
	var chunks [][]string
	for len(urls) > size {
		chunks = append(chunks, urls[:size])
		urls = urls[size:]
	}
	if len(urls) > 0 {
		chunks = append(chunks, urls)
	}
	return chunks
}

func postingsSchema() map[string]any {
	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"job_title":    map[string]any{"type": "string"},
			"company":      map[string]any{"type": "string"},
			"location":     map[string]any{"type": "string"},
			"experience":   map[string]any{"type": "string"},
			"compensation": map[string]any{"type": "string"},
			"link":         map[string]any{"type": "string"},
			"description":  map[string]any{"type": "string"},
		},
		"required": []string{"job_title", "company", "location", "link"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"job_postings": map[string]any{
				"type":  "array",
				"items": item,
			},
		},
		"required": []string{"job_postings"},
	}
}
