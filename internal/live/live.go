package live

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"quotecast/internal/config"
	"quotecast/internal/domain"
	"quotecast/internal/retry"
	"quotecast/internal/session"
)

const reservationStepMinutes = 30

// maxPostMaintenanceAttempts bounds the post-maintenance probing to 24h of
// 30-minute steps.
const maxPostMaintenanceAttempts = 48

// Manager reserves broadcast slots and answers slot-state queries.
type Manager struct {
	platform  config.PlatformConfig
	broadcast config.BroadcastConfig
	schedule  Schedule
	session   *session.Session
	client    *http.Client
	logger    *slog.Logger
	now       func() time.Time

	// takeFn is the raw reservation call; tests substitute it to drive
	// the maintenance-overlap recovery without a platform.
	takeFn func(ctx context.Context, start time.Time, durationMinutes int) (*reserveResult, error)
}

func NewManager(platform config.PlatformConfig, broadcast config.BroadcastConfig, schedule Schedule, sess *session.Session, logger *slog.Logger) *Manager {
	m := &Manager{
		platform:  platform,
		broadcast: broadcast,
		schedule:  schedule,
		session:   sess,
		client:    &http.Client{Timeout: platform.Timeout},
		logger:    logger.With("component", "live"),
		now:       func() time.Time { return time.Now().UTC() },
	}
	m.takeFn = m.takeReservation
	return m
}

type onairsResponse struct {
	Data struct {
		ProgramID     string `json:"programId"`
		NextProgramID string `json:"nextProgramId"`
	} `json:"data"`
}

// LiveState reports the platform's current and next slot IDs. A next slot
// equal to the current one is reported as absent.
func (m *Manager) LiveState(ctx context.Context) (domain.LiveState, error) {
	var state domain.LiveState
	err := retry.Do(ctx, m.platform.LookupRetry, m.logger, "live state", func() error {
		var err error
		state, err = m.liveState(ctx)
		return err
	})
	return state, err
}

func (m *Manager) liveState(ctx context.Context) (domain.LiveState, error) {
	if m.session.Token() == "" {
		if err := m.session.Login(ctx); err != nil {
			return domain.LiveState{}, fmt.Errorf("login: %w", err)
		}
		return domain.LiveState{}, retry.ErrSessionRefreshed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.platform.LiveBaseURL+"/unama/tool/v2/onairs/user", nil)
	if err != nil {
		return domain.LiveState{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-niconico-session", m.session.Token())
	req.Header.Set("User-Agent", m.platform.UserAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return domain.LiveState{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return domain.LiveState{}, m.refreshSession(ctx)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.LiveState{}, fmt.Errorf("onairs lookup: unexpected status: %d", resp.StatusCode)
	}

	var body onairsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.LiveState{}, fmt.Errorf("decode response: %w", err)
	}

	state := domain.LiveState{
		CurrentID: body.Data.ProgramID,
		NextID:    body.Data.NextProgramID,
	}
	if state.NextID == state.CurrentID {
		state.NextID = ""
	}
	return state, nil
}

type programInfoResponse struct {
	Data struct {
		BeginAt int64 `json:"beginAt"`
		EndAt   int64 `json:"endAt"`
	} `json:"data"`
}

// StartTime returns the slot's recorded begin instant.
func (m *Manager) StartTime(ctx context.Context, slotID string) (time.Time, error) {
	var t time.Time
	err := retry.Do(ctx, m.platform.LookupRetry, m.logger, "slot start time", func() error {
		info, err := m.programInfo(ctx, slotID, false)
		if err != nil {
			return err
		}
		t = time.Unix(info.Data.BeginAt, 0).UTC()
		return nil
	})
	return t, err
}

// EndTime returns the slot's recorded end instant. A slot the platform no
// longer knows about is treated as already ended.
func (m *Manager) EndTime(ctx context.Context, slotID string) (time.Time, error) {
	var t time.Time
	err := retry.Do(ctx, m.platform.LookupRetry, m.logger, "slot end time", func() error {
		info, err := m.programInfo(ctx, slotID, true)
		if err != nil {
			return err
		}
		if info == nil {
			t = m.now()
			return nil
		}
		t = time.Unix(info.Data.EndAt, 0).UTC()
		return nil
	})
	return t, err
}

func (m *Manager) programInfo(ctx context.Context, slotID string, missingOK bool) (*programInfoResponse, error) {
	url := fmt.Sprintf("%s/unama/watch/%s/programinfo", m.platform.LiveBaseURL, slotID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", m.platform.UserAgent)
	m.session.Apply(req)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, m.refreshSession(ctx)
	}
	if missingOK && resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("program info: unexpected status: %d", resp.StatusCode)
	}

	var body programInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &body, nil
}

// PostMessage shows an operator comment on the slot.
func (m *Manager) PostMessage(ctx context.Context, slotID, text string, permanent bool) error {
	return retry.Do(ctx, m.platform.MessageRetry, m.logger, "post message", func() error {
		return m.postMessage(ctx, slotID, text, permanent)
	})
}

func (m *Manager) postMessage(ctx context.Context, slotID, text string, permanent bool) error {
	url := fmt.Sprintf("%s/watch/%s/operator_comment", m.platform.LiveBaseURL, slotID)
	payload, err := json.Marshal(map[string]any{
		"text":        text,
		"isPermanent": permanent,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", m.platform.UserAgent)
	req.Header.Set("Content-Type", "application/json")
	m.session.Apply(req)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return m.refreshSession(ctx)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("operator comment: unexpected status: %d", resp.StatusCode)
	}
	return nil
}

type reserveResult struct {
	Status           int
	ErrorCode        string
	MaintenanceBegin *time.Time
}

type reserveResponse struct {
	Meta struct {
		Status    int    `json:"status"`
		ErrorCode string `json:"errorCode"`
	} `json:"meta"`
	Data struct {
		MaintenanceBeginTime string `json:"maintenanceBeginTime"`
	} `json:"data"`
}

// Reserve creates the next aligned slot. Overlap with a platform
// maintenance window is recovered by probing shorter durations before the
// window and later starts after it.
func (m *Manager) Reserve(ctx context.Context) error {
	return retry.Do(ctx, m.platform.ReserveRetry, m.logger, "reserve", func() error {
		return m.reserveOnce(ctx)
	})
}

func (m *Manager) reserveOnce(ctx context.Context) error {
	start := m.schedule.NextSlotStart(m.now())
	duration := int(m.broadcast.SlotDuration.Minutes())

	res, err := m.takeFn(ctx, start, duration)
	if err != nil {
		return err
	}

	switch {
	case res.Status == http.StatusCreated:
		m.logger.Info("slot reserved", "start", start, "duration_minutes", duration)
		return nil
	case res.Status == http.StatusBadRequest && res.ErrorCode == "OVERLAP_MAINTENANCE":
		m.logger.Warn("reservation overlaps maintenance window, recovering", "start", start)
		m.reserveAroundMaintenance(ctx, start, res.MaintenanceBegin)
		return nil
	default:
		return fmt.Errorf("reserve: status %d (%s)", res.Status, res.ErrorCode)
	}
}

// reserveAroundMaintenance fills as much of the schedule as the maintenance
// window allows. Failures here are logged and left degraded rather than
// surfaced; the loop keeps broadcasting with whatever was reserved.
func (m *Manager) reserveAroundMaintenance(ctx context.Context, start time.Time, boundary *time.Time) {
	remainder := m.preMaintenanceMinutes(start, boundary)

	reserved := 0
	for d := remainder; d > 0; d -= reservationStepMinutes {
		res, err := m.takeWithRetry(ctx, start, d)
		if err != nil {
			m.logger.Warn("pre-maintenance reservation attempt failed", "duration_minutes", d, "error", err)
			continue
		}
		if res.Status == http.StatusCreated {
			reserved = d
			break
		}
	}
	if reserved == 0 {
		m.logger.Error("could not reserve any pre-maintenance time", "start", start)
	}

	current := start.Add(time.Duration(reserved) * time.Minute)
	for attempt := 0; attempt < maxPostMaintenanceAttempts; attempt++ {
		end := m.schedule.nextSlotStartAfter(current)
		duration := int(end.Sub(current).Minutes())
		if duration <= 0 {
			current = current.Add(reservationStepMinutes * time.Minute)
			continue
		}

		res, err := m.takeWithRetry(ctx, current, duration)
		if err != nil {
			m.logger.Warn("post-maintenance reservation attempt failed", "start", current, "error", err)
		} else if res.Status == http.StatusCreated {
			m.logger.Info("post-maintenance slot reserved", "start", current, "duration_minutes", duration)
			return
		}
		current = current.Add(reservationStepMinutes * time.Minute)
	}
	m.logger.Error("post-maintenance reservation attempts exhausted", "start", start)
}

// preMaintenanceMinutes picks the first duration to probe. When the
// platform reported the window's begin instant, the remainder before it is
// exact; otherwise fall back to the gap until the next anchor.
func (m *Manager) preMaintenanceMinutes(start time.Time, boundary *time.Time) int {
	if boundary != nil && boundary.After(start) {
		return int(boundary.Sub(start).Minutes())
	}
	return int(m.schedule.nextSlotStartAfter(start).Sub(start).Minutes())
}

func (m *Manager) takeWithRetry(ctx context.Context, start time.Time, durationMinutes int) (*reserveResult, error) {
	var res *reserveResult
	err := retry.Do(ctx, m.platform.ReserveRetry, m.logger, "take reservation", func() error {
		var err error
		res, err = m.takeFn(ctx, start, durationMinutes)
		return err
	})
	return res, err
}

func (m *Manager) takeReservation(ctx context.Context, start time.Time, durationMinutes int) (*reserveResult, error) {
	payload := m.programPayload()
	payload["reservationBeginTime"] = start.UTC().Format("2006-01-02T15:04:05Z")
	payload["durationMinutes"] = durationMinutes

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.platform.LiveBaseURL+"/unama/api/v2/programs", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", m.platform.UserAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-niconico-session", m.session.Token())

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, m.refreshSession(ctx)
	}
	if resp.StatusCode > 399 && resp.StatusCode != http.StatusBadRequest {
		return nil, fmt.Errorf("take reservation: unexpected status: %d", resp.StatusCode)
	}

	var decoded reserveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	result := &reserveResult{
		Status:    decoded.Meta.Status,
		ErrorCode: decoded.Meta.ErrorCode,
	}
	if decoded.Data.MaintenanceBeginTime != "" {
		if t, err := time.Parse(time.RFC3339, decoded.Data.MaintenanceBeginTime); err == nil {
			t = t.UTC()
			result.MaintenanceBegin = &t
		}
	}
	return result, nil
}

func (m *Manager) programPayload() map[string]any {
	tags := make([]map[string]any, 0, len(m.broadcast.Tags))
	for _, tag := range m.broadcast.Tags {
		tags = append(tags, map[string]any{"label": tag, "isLocked": true})
	}
	return map[string]any{
		"title":                      fmt.Sprintf(m.broadcast.TitleFormat, m.broadcast.Category),
		"description":                m.broadcast.Description,
		"category":                   "動画紹介",
		"tags":                       tags,
		"communityId":                m.broadcast.CommunityID,
		"optionalCategories":         []string{},
		"isTagOwnerLock":             true,
		"isMemberOnly":               false,
		"isTimeshiftEnabled":         true,
		"isUadEnabled":               true,
		"isAutoCommentFilterEnabled": false,
		"maxQuality":                 "1Mbps450p",
		"rightsItems":                []string{},
		"isOfficialIchibaOnly":       false,
		"isQuotable":                 false,
	}
}

func (m *Manager) refreshSession(ctx context.Context) error {
	if err := m.session.Login(ctx); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	return retry.ErrSessionRefreshed
}
