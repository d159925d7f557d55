package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"

	"quotecast/internal/config"
	"quotecast/internal/domain"
	"quotecast/internal/retry"
)

// ErrSelectionFailed means a full candidate scan produced no eligible
// video; the retry combinator re-drives the whole selection with a fresh
// tag and offset.
var ErrSelectionFailed = errors.New("no eligible candidate")

// EligibilityChecker is the quotation controller's video inspection.
type EligibilityChecker interface {
	VideoInfo(ctx context.Context, videoID string) (domain.VideoInfo, error)
}

// Engine picks the next video to quote: fairness selection over viewer
// requests, and weighted-random tag discovery against the search API.
type Engine struct {
	cfg              config.SelectionConfig
	platform         config.PlatformConfig
	maintenanceVideo string
	ngVideos         map[string]struct{}
	checker          EligibilityChecker
	client           *http.Client
	logger           *slog.Logger
	rnd              *rand.Rand
}

func NewEngine(cfg config.SelectionConfig, platform config.PlatformConfig, broadcast config.BroadcastConfig, checker EligibilityChecker, logger *slog.Logger) *Engine {
	ngVideos := make(map[string]struct{}, len(broadcast.NGVideos))
	for _, id := range broadcast.NGVideos {
		ngVideos[id] = struct{}{}
	}
	return &Engine{
		cfg:              cfg,
		platform:         platform,
		maintenanceVideo: broadcast.MaintenanceVideo,
		ngVideos:         ngVideos,
		checker:          checker,
		client:           &http.Client{Timeout: platform.Timeout},
		logger:           logger.With("component", "selection"),
		rnd:              rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// FromRequests shuffles the request list and picks up to n distinct video
// IDs, first occurrence winning. A video requested many times can still
// take only one winner slot. Returns nil when there are no winners.
func (e *Engine) FromRequests(requests []string, n int) []string {
	shuffled := append([]string(nil), requests...)
	e.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var winners []string
	seen := make(map[string]struct{}, n)
	for _, id := range shuffled {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		winners = append(winners, id)
		if len(winners) >= n {
			break
		}
	}
	return winners
}

// Random discovers one quotable video by exact-tag search. The search
// backend answering 503 is a known degraded-service signal and yields the
// maintenance filler immediately instead of retrying.
func (e *Engine) Random(ctx context.Context, tags []string) (string, error) {
	if len(tags) == 0 {
		return "", fmt.Errorf("empty tag pool: %w", ErrSelectionFailed)
	}

	var winner string
	err := retry.Do(ctx, e.platform.SelectionRetry, e.logger, "random selection", func() error {
		var err error
		winner, err = e.randomOnce(ctx, tags)
		return err
	})
	return winner, err
}

type searchResponse struct {
	Data []struct {
		ContentID string `json:"contentId"`
	} `json:"data"`
}

func (e *Engine) randomOnce(ctx context.Context, tags []string) (string, error) {
	tag := tags[e.rnd.IntN(len(tags))]
	offset := e.rnd.IntN(e.cfg.MaxOffset + 1)

	params := url.Values{
		"q":                           {tag},
		"targets":                     {"tagsExact"},
		"fields":                      {"contentId"},
		"filters[lengthSeconds][gte]": {strconv.Itoa(int(e.cfg.MinLength.Seconds()))},
		"filters[lengthSeconds][lte]": {strconv.Itoa(int(e.cfg.MaxLength.Seconds()))},
		"_sort":                       {"-lastCommentTime"},
		"_context":                    {e.platform.UserAgent},
		"_limit":                      {strconv.Itoa(e.cfg.PageSize)},
		"_offset":                     {strconv.Itoa(offset)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.platform.SearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.platform.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		e.logger.Warn("search backend degraded, falling back to maintenance filler")
		return e.maintenanceVideo, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search: unexpected status: %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	candidates := make([]string, 0, len(body.Data))
	for _, item := range body.Data {
		if _, blocked := e.ngVideos[item.ContentID]; blocked {
			continue
		}
		candidates = append(candidates, item.ContentID)
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("tag %q offset %d: %w", tag, offset, ErrSelectionFailed)
	}

	e.rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for _, candidate := range candidates {
		info, err := e.checker.VideoInfo(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check candidate %s: %w", candidate, err)
		}
		if info.Quotable {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("tag %q: all %d candidates rejected: %w", tag, len(candidates), ErrSelectionFailed)
}
