package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"quotecast/internal/config"
	"quotecast/internal/domain"
	"quotecast/internal/retry"
	"quotecast/internal/session"
)

// Controller starts, stops and inspects the quotation on a live slot.
// A slot has at most one quotation; starting a new one replaces the prior
// one after an explicit stop and a settle delay.
type Controller struct {
	platform config.PlatformConfig
	session  *session.Session
	client   *http.Client
	logger   *slog.Logger
	ngTags   map[string]struct{}
	settle   time.Duration
	sleep    func(context.Context, time.Duration) error
}

func NewController(platform config.PlatformConfig, broadcast config.BroadcastConfig, sess *session.Session, logger *slog.Logger) *Controller {
	ngTags := make(map[string]struct{}, len(broadcast.NGTags))
	for _, tag := range broadcast.NGTags {
		ngTags[tag] = struct{}{}
	}
	return &Controller{
		platform: platform,
		session:  sess,
		client:   &http.Client{Timeout: platform.Timeout},
		logger:   logger.With("component", "quote"),
		ngTags:   ngTags,
		settle:   broadcast.SettleDelay,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Controller) quotationURL(slotID string) string {
	return fmt.Sprintf("%s/v1/tools/live/contents/%s/quotation", c.platform.QuoteBaseURL, slotID)
}

type quotationResponse struct {
	CurrentContent struct {
		ID string `json:"id"`
	} `json:"currentContent"`
}

// Current returns the video ID quoted on the slot, or "" when nothing is
// quoted. A 404 from the platform means "no quotation", not an error.
func (c *Controller) Current(ctx context.Context, slotID string) (string, error) {
	var videoID string
	err := retry.Do(ctx, c.platform.QuoteRetry, c.logger, "current quotation", func() error {
		var err error
		videoID, err = c.current(ctx, slotID)
		return err
	})
	return videoID, err
}

func (c *Controller) current(ctx context.Context, slotID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.quotationURL(slotID), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	c.session.Apply(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusForbidden:
		return "", c.refreshSession(ctx)
	case http.StatusNotFound:
		return "", nil
	case http.StatusOK:
	default:
		return "", fmt.Errorf("current quotation: unexpected status: %d", resp.StatusCode)
	}

	var body quotationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return body.CurrentContent.ID, nil
}

// Stop removes the slot's quotation. Stopping a slot that has none is a
// no-op success.
func (c *Controller) Stop(ctx context.Context, slotID string) error {
	return retry.Do(ctx, c.platform.LookupRetry, c.logger, "stop quotation", func() error {
		return c.stop(ctx, slotID)
	})
}

func (c *Controller) stop(ctx context.Context, slotID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.quotationURL(slotID), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.session.Apply(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return c.refreshSession(ctx)
	case resp.StatusCode == http.StatusNotFound:
		c.logger.Info("no quotation to stop", "slot", slotID)
		return nil
	case resp.StatusCode >= 400:
		return fmt.Errorf("stop quotation: unexpected status: %d", resp.StatusCode)
	}
	return nil
}

type videoDataResponse struct {
	Data struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Length   int    `json:"length"`
		Quotable bool   `json:"quotable"`
	} `json:"data"`
}

// VideoInfo reports whether the video can be quoted, its length, and its
// on-air caption. The platform's quotable verdict is tightened by the
// NG-tag check; the tag lookup is skipped when the platform already said no.
func (c *Controller) VideoInfo(ctx context.Context, videoID string) (domain.VideoInfo, error) {
	var info domain.VideoInfo
	err := retry.Do(ctx, c.platform.VideoInfoRetry, c.logger, "video info", func() error {
		var err error
		info, err = c.videoInfo(ctx, videoID)
		return err
	})
	return info, err
}

func (c *Controller) videoInfo(ctx context.Context, videoID string) (domain.VideoInfo, error) {
	data, err := c.fetchVideoData(ctx, videoID)
	if err != nil {
		return domain.VideoInfo{}, err
	}
	if data == nil {
		// Platform-side lookup failure; the video is unusable either way.
		return domain.VideoInfo{Caption: "ERROR"}, nil
	}

	info := domain.VideoInfo{
		Quotable: data.Data.Quotable,
		Length:   time.Duration(data.Data.Length) * time.Second,
		Caption:  fmt.Sprintf("%s / %s", orUntitled(data.Data.Title), data.Data.ID),
	}

	if info.Quotable && len(c.ngTags) > 0 {
		blocked, err := c.hasNGTag(ctx, videoID)
		if err != nil {
			return domain.VideoInfo{}, err
		}
		if blocked {
			c.logger.Info("video rejected by tag filter", "video", videoID)
			info.Quotable = false
		}
	}
	return info, nil
}

func orUntitled(title string) string {
	if title == "" {
		return "（無題）"
	}
	return title
}

func (c *Controller) fetchVideoData(ctx context.Context, videoID string) (*videoDataResponse, error) {
	url := fmt.Sprintf("%s/v1/tools/live/quote/services/video/contents/%s", c.platform.QuoteBaseURL, videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.session.Apply(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, c.refreshSession(ctx)
	case resp.StatusCode == http.StatusInternalServerError:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("video lookup: unexpected status: %d", resp.StatusCode)
	}

	var body videoDataResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &body, nil
}

type thumbInfo struct {
	Tags []string `xml:"thumb>tags>tag"`
}

func (c *Controller) hasNGTag(ctx context.Context, videoID string) (bool, error) {
	var blocked bool
	err := retry.Do(ctx, c.platform.LookupRetry, c.logger, "tag lookup", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.platform.ThumbInfoURL+"/"+videoID, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("execute request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("tag lookup: unexpected status: %d", resp.StatusCode)
		}

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		var parsed thumbInfo
		if err := xml.Unmarshal(raw, &parsed); err != nil {
			return fmt.Errorf("parse thumb info: %w", err)
		}

		blocked = false
		for _, tag := range parsed.Tags {
			if _, ng := c.ngTags[tag]; ng {
				blocked = true
				break
			}
		}
		return nil
	})
	return blocked, err
}

// Once quotes the video one-shot with the fixed mixing layout and returns
// the video's freshly re-fetched length as the completion horizon.
func (c *Controller) Once(ctx context.Context, slotID, videoID string) (time.Duration, error) {
	var length time.Duration
	err := retry.Do(ctx, c.platform.QuoteRetry, c.logger, "quote once", func() error {
		var err error
		length, err = c.once(ctx, slotID, videoID)
		return err
	})
	return length, err
}

func (c *Controller) once(ctx context.Context, slotID, videoID string) (time.Duration, error) {
	if err := c.stop(ctx, slotID); err != nil {
		return 0, err
	}

	payload := map[string]any{
		"layout": map[string]any{
			"main": map[string]any{
				"source": "quote",
				"volume": 0.5,
			},
			"sub": map[string]any{
				"source":      "self",
				"volume":      0.5,
				"isSoundOnly": true,
			},
		},
		"contents": []map[string]any{
			{"id": videoID, "type": "video"},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}

	// Racing the platform's stop processing makes the create fail, so
	// settle before posting.
	if err := c.sleep(ctx, c.settle); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.quotationURL(slotID), bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.session.Apply(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	if status == http.StatusConflict {
		status, err = c.replaceContents(ctx, slotID, videoID)
		if err != nil {
			return 0, err
		}
	}

	switch {
	case status == http.StatusForbidden:
		return 0, c.refreshSession(ctx)
	case status >= 400:
		return 0, fmt.Errorf("start quotation: unexpected status: %d", status)
	}

	data, err := c.fetchVideoData(ctx, videoID)
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, nil
	}
	return time.Duration(data.Data.Length) * time.Second, nil
}

// replaceContents swaps the quoted video in place when a create conflicts
// with an existing quotation.
func (c *Controller) replaceContents(ctx context.Context, slotID, videoID string) (int, error) {
	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"id": videoID, "type": "video"},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.quotationURL(slotID)+"/contents", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.session.Apply(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// Loop quotes the video and then flips the quotation into repeat mode,
// used for filler content that must hold the slot.
func (c *Controller) Loop(ctx context.Context, slotID, videoID string) error {
	if _, err := c.Once(ctx, slotID, videoID); err != nil {
		return err
	}
	return retry.Do(ctx, c.platform.QuoteRetry, c.logger, "set repeat", func() error {
		return c.setRepeat(ctx, slotID)
	})
}

func (c *Controller) setRepeat(ctx context.Context, slotID string) error {
	if err := c.sleep(ctx, time.Second); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]any{
		"layout": map[string]any{
			"main": map[string]any{
				"source": "quote",
				"volume": 0.5,
			},
			"sub": map[string]any{
				"source":      "self",
				"volume":      0.5,
				"isSoundOnly": false,
			},
		},
		"repeat": true,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.quotationURL(slotID)+"/layout", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.session.Apply(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return c.refreshSession(ctx)
	case resp.StatusCode >= 400:
		return fmt.Errorf("set repeat: unexpected status: %d", resp.StatusCode)
	}
	return nil
}

func (c *Controller) refreshSession(ctx context.Context) error {
	if err := c.session.Login(ctx); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	return retry.ErrSessionRefreshed
}
