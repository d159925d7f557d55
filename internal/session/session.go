package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
)

// ErrLoginFailed means the account endpoint accepted the request but never
// produced a usable session cookie.
var ErrLoginFailed = errors.New("login did not produce a session")

const sessionCookieName = "user_session"
const mfaCookieName = "mfa_session"

// Config holds the account credentials and login endpoint.
type Config struct {
	LoginURL   string
	Mail       string
	Password   string
	TOTPSecret string
	UserAgent  string
	Timeout    time.Duration
}

// Session is the mutable credential cell shared by every platform client.
// Login replaces the stored cookies wholesale. The broadcast loop is
// single-threaded, so no locking is needed; callers must re-read the
// credential through Token/Apply after any refresh rather than caching it.
type Session struct {
	cfg     Config
	client  *http.Client
	logger  *slog.Logger
	cookies []*http.Cookie
}

func New(cfg Config, logger *slog.Logger) *Session {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Session{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger.With("component", "session"),
	}
}

// Login performs the account handshake and replaces the credential.
// A plain login ends with a session cookie in one hop; accounts with
// multi-factor auth get an intermediate cookie and a redirect to the
// one-time-password form.
func (s *Session) Login(ctx context.Context) error {
	form := url.Values{
		"mail_tel": {s.cfg.Mail},
		"password": {s.cfg.Password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.LoginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("login: unexpected status: %d", resp.StatusCode)
	}

	cookies := resp.Cookies()
	if hasCookie(cookies, sessionCookieName) {
		s.cookies = cookies
		s.logger.Info("logged in")
		return nil
	}
	if hasCookie(cookies, mfaCookieName) {
		if err := s.mfaLogin(ctx, resp.Header.Get("Location"), cookies); err != nil {
			return err
		}
		s.logger.Info("logged in via one-time password")
		return nil
	}

	return ErrLoginFailed
}

func (s *Session) mfaLogin(ctx context.Context, location string, cookies []*http.Cookie) error {
	code, err := totp.GenerateCode(s.cfg.TOTPSecret, time.Now())
	if err != nil {
		return fmt.Errorf("generate one-time password: %w", err)
	}

	form := url.Values{
		"otp":                   {code},
		"is_mfa_trusted_device": {"false"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, location, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create otp request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute otp request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("otp: unexpected status: %d", resp.StatusCode)
	}

	followReq, err := http.NewRequestWithContext(ctx, http.MethodGet, resp.Header.Get("Location"), nil)
	if err != nil {
		return fmt.Errorf("create otp follow-up request: %w", err)
	}
	followReq.Header.Set("User-Agent", s.cfg.UserAgent)
	for _, c := range cookies {
		followReq.AddCookie(c)
	}

	followResp, err := s.client.Do(followReq)
	if err != nil {
		return fmt.Errorf("execute otp follow-up request: %w", err)
	}
	defer followResp.Body.Close()
	if followResp.StatusCode >= 400 {
		return fmt.Errorf("otp follow-up: unexpected status: %d", followResp.StatusCode)
	}

	final := followResp.Cookies()
	if !hasCookie(final, sessionCookieName) {
		return ErrLoginFailed
	}
	s.cookies = final
	return nil
}

// Token returns the session token string for header-based endpoints, or ""
// when no credential is held.
func (s *Session) Token() string {
	for _, c := range s.cookies {
		if c.Name == sessionCookieName {
			return c.Value
		}
	}
	return ""
}

// Apply attaches the stored credential cookies to req.
func (s *Session) Apply(req *http.Request) {
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
}

func hasCookie(cookies []*http.Cookie, name string) bool {
	for _, c := range cookies {
		if c.Name == name {
			return true
		}
	}
	return false
}
