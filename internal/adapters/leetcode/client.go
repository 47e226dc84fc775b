// Package leetcode fetches public profile data from the LeetCode GraphQL API.
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/devakmmm/LeetInsight/internal/domain/model"
	"github.com/devakmmm/LeetInsight/pkg/logger"
	"github.com/devakmmm/LeetInsight/pkg/metrics"
)

const (
	// DefaultEndpoint is the public LeetCode GraphQL endpoint.
	DefaultEndpoint = "https://leetcode.com/graphql"

	defaultTimeout = 10 * time.Second
	userAgent      = "leetcode-analytics-dashboard/1.0"
	siteOrigin     = "https://leetcode.com"

	maxErrorBody = 300
)

// Client talks to the LeetCode GraphQL endpoint.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
	log      logger.Logger
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.log == nil {
		c.log = logger.Get().Named("leetcode")
	}
	return c
}

// Profile returns the solved counts of username. A missing or private user
// yields ErrUserNotFound.
func (c *Client) Profile(ctx context.Context, username string) (model.Profile, error) {
	var data profileData
	if err := c.do(ctx, "profile", profileQuery, map[string]any{"username": username}, &data); err != nil {
		return model.Profile{}, err
	}
	if data.MatchedUser == nil {
		return model.Profile{}, fmt.Errorf("profile %q: %w", username, ErrUserNotFound)
	}

	byDifficulty := make(map[string]int, 4)
	for _, row := range data.MatchedUser.SubmitStats.AcSubmissionNum {
		byDifficulty[strings.ToLower(row.Difficulty)] = row.Count
	}

	solved := model.ProblemCounts{
		Easy:   byDifficulty["easy"],
		Medium: byDifficulty["medium"],
		Hard:   byDifficulty["hard"],
	}
	if all, ok := byDifficulty["all"]; ok {
		solved.All = all
	} else {
		solved.All = solved.Easy + solved.Medium + solved.Hard
	}

	return model.Profile{Username: data.MatchedUser.Username, Solved: solved}, nil
}

// RecentAccepted returns up to limit recent submissions with an accepted
// verdict, newest first as reported upstream.
func (c *Client) RecentAccepted(ctx context.Context, username string, limit int) ([]model.Submission, error) {
	var data recentData
	vars := map[string]any{"username": username, "limit": limit}
	if err := c.do(ctx, "recent_accepted", recentSubmissionsQuery, vars, &data); err != nil {
		return nil, err
	}

	out := make([]model.Submission, 0, len(data.RecentSubmissionList))
	for _, s := range data.RecentSubmissionList {
		if !strings.EqualFold(s.StatusDisplay, "accepted") {
			continue
		}
		ts, _ := strconv.ParseInt(s.Timestamp, 10, 64)
		out = append(out, model.Submission{
			Title:     s.Title,
			Slug:      s.TitleSlug,
			Lang:      s.Lang,
			Timestamp: ts,
		})
	}
	return out, nil
}

// TagStats returns the per-topic solved counts of username, sorted by solved
// descending. A user without topic data yields an empty slice.
func (c *Client) TagStats(ctx context.Context, username string) ([]model.TagStat, error) {
	var data tagData
	if err := c.do(ctx, "tag_stats", tagStatsQuery, map[string]any{"username": username}, &data); err != nil {
		return nil, err
	}
	if data.MatchedUser == nil || data.MatchedUser.TagProblemCounts == nil {
		return []model.TagStat{}, nil
	}

	tpc := data.MatchedUser.TagProblemCounts
	groups := [][]tagCount{tpc.Fundamental, tpc.Intermediate, tpc.Advanced}

	out := make([]model.TagStat, 0, len(tpc.Fundamental)+len(tpc.Intermediate)+len(tpc.Advanced))
	for _, group := range groups {
		for _, t := range group {
			if t.ProblemsSolved == nil {
				continue
			}
			out = append(out, model.TagStat{TagSlug: t.TagSlug, TagName: t.TagName, Solved: *t.ProblemsSolved})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Solved > out[j].Solved })
	return out, nil
}

func (c *Client) do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.RecordUpstreamRequest(op, outcome, float64(time.Since(start).Microseconds())/1000.0)
	}()

	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		outcome = "encode_error"
		return fmt.Errorf("encode %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		outcome = "request_error"
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", siteOrigin)
	req.Header.Set("Origin", siteOrigin)

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "transport_error"
		c.log.Warn(ctx, "upstream request failed", logger.String("op", op), logger.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = "read_error"
		return fmt.Errorf("%w: read %s response: %v", ErrUpstream, op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "http_" + strconv.Itoa(resp.StatusCode)
		c.log.Warn(ctx, "upstream returned non-2xx",
			logger.String("op", op),
			logger.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: LeetCode GraphQL failed (%d): %s", ErrUpstream, resp.StatusCode, truncate(string(raw), maxErrorBody))
	}

	var env gqlResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		outcome = "decode_error"
		return fmt.Errorf("%w: decode %s response: %v", ErrUpstream, op, err)
	}
	if len(env.Errors) > 0 {
		outcome = "graphql_error"
		detail, _ := json.Marshal(env.Errors)
		return fmt.Errorf("%w: LeetCode GraphQL errors: %s", ErrUpstream, truncate(string(detail), 400))
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		outcome = "decode_error"
		return fmt.Errorf("%w: decode %s data: %v", ErrUpstream, op, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
