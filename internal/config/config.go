package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"quotecast/internal/retry"
)

type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	RabbitMQ  RabbitMQConfig  `yaml:"rabbitmq"`
	Account   AccountConfig   `yaml:"account"`
	Platform  PlatformConfig  `yaml:"platform"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Selection SelectionConfig `yaml:"selection"`
	LogLevel  string          `yaml:"log_level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type AccountConfig struct {
	Mail       string `yaml:"mail"`
	Password   string `yaml:"password"`
	TOTPSecret string `yaml:"totp_secret"`
}

// PlatformConfig points at the live platform's API surfaces. The defaults
// are the production endpoints; tests override them with local servers.
type PlatformConfig struct {
	LiveBaseURL     string        `yaml:"live_base_url"`
	QuoteBaseURL    string        `yaml:"quote_base_url"`
	SearchURL       string        `yaml:"search_url"`
	ThumbInfoURL    string        `yaml:"thumb_info_url"`
	AccountLoginURL string        `yaml:"account_login_url"`
	UserAgent       string        `yaml:"user_agent"`
	Timeout         time.Duration `yaml:"timeout"`

	ReserveRetry   retry.Config `yaml:"reserve_retry"`
	LookupRetry    retry.Config `yaml:"lookup_retry"`
	VideoInfoRetry retry.Config `yaml:"video_info_retry"`
	QuoteRetry     retry.Config `yaml:"quote_retry"`
	MessageRetry   retry.Config `yaml:"message_retry"`
	SelectionRetry retry.Config `yaml:"selection_retry"`
}

type BroadcastConfig struct {
	Category         string        `yaml:"category"`
	CommunityID      string        `yaml:"community_id"`
	TitleFormat      string        `yaml:"title_format"`
	Description      string        `yaml:"description"`
	ApologyMessage   string        `yaml:"apology_message"`
	ClosingMessage   string        `yaml:"closing_message"`
	Tags             []string      `yaml:"tags"`
	RequestTags      []string      `yaml:"request_tags"`
	NGTags           []string      `yaml:"ng_tags"`
	NGVideos         []string      `yaml:"ng_videos"`
	MaintenanceVideo string        `yaml:"maintenance_video"`
	ClosingVideo     string        `yaml:"closing_video"`
	SlotDuration     time.Duration `yaml:"slot_duration"`
	SafetyMargin     time.Duration `yaml:"safety_margin"`
	SettleDelay      time.Duration `yaml:"settle_delay"`
}

// ScheduleConfig fixes the daily slot-start anchors. Hours are in the
// configured zone, not UTC.
type ScheduleConfig struct {
	AnchorHours    []int `yaml:"anchor_hours"`
	UTCOffsetHours int   `yaml:"utc_offset_hours"`
}

type SelectionConfig struct {
	MinLength      time.Duration `yaml:"min_length"`
	MaxLength      time.Duration `yaml:"max_length"`
	PageSize       int           `yaml:"page_size"`
	MaxOffset      int           `yaml:"max_offset"`
	RequestWinners int           `yaml:"request_winners"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "quotecast"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "alerts"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "operator_alerts"
	}

	if c.Platform.LiveBaseURL == "" {
		c.Platform.LiveBaseURL = "https://live2.nicovideo.jp"
	}
	if c.Platform.QuoteBaseURL == "" {
		c.Platform.QuoteBaseURL = "https://lapi.spi.nicovideo.jp"
	}
	if c.Platform.SearchURL == "" {
		c.Platform.SearchURL = "https://api.search.nicovideo.jp/api/v2/snapshot/video/contents/search"
	}
	if c.Platform.ThumbInfoURL == "" {
		c.Platform.ThumbInfoURL = "https://ext.nicovideo.jp/api/getthumbinfo"
	}
	if c.Platform.AccountLoginURL == "" {
		c.Platform.AccountLoginURL = "https://account.nicovideo.jp/login/redirector"
	}
	if c.Platform.UserAgent == "" {
		c.Platform.UserAgent = "Quotecast Backend"
	}
	if c.Platform.Timeout == 0 {
		c.Platform.Timeout = 30 * time.Second
	}

	if c.Platform.ReserveRetry.MaxAttempts == 0 {
		c.Platform.ReserveRetry.MaxAttempts = 10
	}
	if c.Platform.LookupRetry.MaxAttempts == 0 {
		c.Platform.LookupRetry.MaxAttempts = 5
	}
	if c.Platform.VideoInfoRetry.MaxAttempts == 0 {
		c.Platform.VideoInfoRetry.MaxAttempts = 3
	}
	if c.Platform.QuoteRetry.MaxAttempts == 0 {
		c.Platform.QuoteRetry.MaxAttempts = 10
	}
	if c.Platform.MessageRetry.MaxAttempts == 0 {
		c.Platform.MessageRetry.MaxAttempts = 10
	}
	if c.Platform.SelectionRetry.MaxAttempts == 0 {
		c.Platform.SelectionRetry.MaxAttempts = 5
	}

	if c.Broadcast.TitleFormat == "" {
		c.Broadcast.TitleFormat = "【%s】24時間引用配信【動画紹介】"
	}
	if c.Broadcast.Description == "" {
		c.Broadcast.Description = "この生放送はBotにより自動的に配信されています。"
	}
	if c.Broadcast.ApologyMessage == "" {
		c.Broadcast.ApologyMessage = "システムが異常停止したため、自動回復機能により復旧しました。\nご迷惑をおかけし大変申し訳ございません。まもなく再開いたします。"
	}
	if c.Broadcast.ClosingMessage == "" {
		c.Broadcast.ClosingMessage = "この枠の放送は終了しました。\nご視聴ありがとうございました。"
	}
	if c.Broadcast.MaintenanceVideo == "" {
		c.Broadcast.MaintenanceVideo = "sm17759202"
	}
	if c.Broadcast.ClosingVideo == "" {
		c.Broadcast.ClosingVideo = "sm17572946"
	}
	if c.Broadcast.SlotDuration == 0 {
		c.Broadcast.SlotDuration = 360 * time.Minute
	}
	if c.Broadcast.SafetyMargin == 0 {
		c.Broadcast.SafetyMargin = 1 * time.Minute
	}
	if c.Broadcast.SettleDelay == 0 {
		c.Broadcast.SettleDelay = 1500 * time.Millisecond
	}

	if len(c.Schedule.AnchorHours) == 0 {
		c.Schedule.AnchorHours = []int{4, 10, 16, 22}
	}
	if c.Schedule.UTCOffsetHours == 0 {
		c.Schedule.UTCOffsetHours = 9
	}

	if c.Selection.MinLength == 0 {
		c.Selection.MinLength = 45 * time.Second
	}
	if c.Selection.MaxLength == 0 {
		c.Selection.MaxLength = 10 * time.Minute
	}
	if c.Selection.PageSize == 0 {
		c.Selection.PageSize = 30
	}
	if c.Selection.MaxOffset == 0 {
		c.Selection.MaxOffset = 90
	}
	if c.Selection.RequestWinners == 0 {
		c.Selection.RequestWinners = 5
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
