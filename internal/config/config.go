// Package config 读取 vmscrape 的运行配置：内置默认值 < 配置文件（JSON） < 环境变量。
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/John-Robertt/vmscrape/internal/classify"
	"github.com/John-Robertt/vmscrape/internal/infra/snapshot"
	"github.com/John-Robertt/vmscrape/internal/site"
)

const (
	// ErrCodeNotFound 表示显式指定的配置文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// DefaultFile 是未指定 --config 时尝试读取的文件（可选）。
	DefaultFile = "vmscrape.json"
	// EnvPrefix 对应 VMSCRAPE_<SECTION>_<KEY>，例如 VMSCRAPE_SITE_BASE_URL。
	EnvPrefix = "vmscrape"

	DefaultAddr    = ":5000"
	DefaultTimeout = 20 * time.Second
)

var envKeyReplacer = strings.NewReplacer(".", "_")

type Config struct {
	Site   SiteConfig   `mapstructure:"site"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Store  StoreConfig  `mapstructure:"store"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

type SiteConfig struct {
	BaseURL            string   `mapstructure:"base_url"`
	TrustedHost        string   `mapstructure:"trusted_host"`
	BlockedPatterns    []string `mapstructure:"blocked_patterns"`
	SearchSelectors    []string `mapstructure:"search_selectors"`
	TitleSelectors     []string `mapstructure:"title_selectors"`
	SummaryContainers  []string `mapstructure:"summary_containers"`
	ScreenshotSelector string   `mapstructure:"screenshot_selector"`
	MaxScreenshots     int      `mapstructure:"max_screenshots"`
	MinSummaryLen      int      `mapstructure:"min_summary_len"`
}

type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	ProxyURL  string        `mapstructure:"proxy_url"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	JSON       bool   `mapstructure:"json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Defaults 返回所有键的内置默认值（键名即配置文件/环境变量中的键）。
func Defaults() map[string]any {
	page := site.DefaultPageSelectors()
	return map[string]any{
		"site.base_url":            site.DefaultBaseURL,
		"site.trusted_host":        classify.DefaultTrustedHost,
		"site.blocked_patterns":    append([]string(nil), classify.DefaultBlockedPatterns...),
		"site.search_selectors":    append([]string(nil), site.DefaultSearchSelectors...),
		"site.title_selectors":     page.Title,
		"site.summary_containers":  page.SummaryContainers,
		"site.screenshot_selector": page.Screenshots,
		"site.max_screenshots":     page.MaxScreenshots,
		"site.min_summary_len":     page.MinSummaryLen,
		"http.timeout":             DefaultTimeout,
		"http.user_agent":          "",
		"http.proxy_url":           "",
		"store.path":               snapshot.DefaultPath,
		"server.addr":              DefaultAddr,
		"log.level":                "info",
		"log.json":                 false,
		"log.file":                 "",
		"log.max_size_mb":          10,
		"log.max_backups":          3,
		"log.max_age_days":         28,
		"log.compress":             false,
	}
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Load 读取配置。
//
// 发现规则（固定）：
// - path 非空：必须存在，否则 config_not_found
// - path 为空：尝试读取 DefaultFile（可选，不存在不报错）
//
// 覆盖优先级：环境变量 > 配置文件 > 内置默认值。
func Load(fs afero.Fs, path string) (Config, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	required := strings.TrimSpace(path) != ""
	if !required {
		path = DefaultFile
	}
	path = strings.TrimSpace(path)

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	for k, val := range Defaults() {
		v.SetDefault(k, val)
		if err := v.BindEnv(k); err != nil {
			return Config{}, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
		}
	}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}
	switch {
	case exists:
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
		}
	case required:
		return Config{}, &Error{Code: ErrCodeNotFound, Path: path, Err: os.ErrNotExist}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}
	if err := c.normalize(); err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
	}
	return c, nil
}

// normalize 做最小规范化与校验（实现层直接消费，不再做二次默认判断）。
func (c *Config) normalize() error {
	c.Site.BaseURL = strings.TrimSpace(c.Site.BaseURL)
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("site.base_url 无效：%q", c.Site.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("site.base_url 必须是 http/https：%q", c.Site.BaseURL)
	}

	c.Site.TrustedHost = strings.ToLower(strings.TrimSpace(c.Site.TrustedHost))
	if c.Site.TrustedHost == "" {
		return errors.New("site.trusted_host 不能为空")
	}

	c.Site.BlockedPatterns = cleanList(c.Site.BlockedPatterns)
	c.Site.SearchSelectors = cleanList(c.Site.SearchSelectors)
	c.Site.TitleSelectors = cleanList(c.Site.TitleSelectors)
	c.Site.SummaryContainers = cleanList(c.Site.SummaryContainers)

	// 范围 [1, 4]；超出截断。
	if c.Site.MaxScreenshots < 1 {
		c.Site.MaxScreenshots = 1
	}
	if c.Site.MaxScreenshots > 4 {
		c.Site.MaxScreenshots = 4
	}
	if c.Site.MinSummaryLen < 0 {
		return fmt.Errorf("site.min_summary_len 不能为负数：%d", c.Site.MinSummaryLen)
	}

	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout 必须为正数：%s", c.HTTP.Timeout)
	}
	c.HTTP.ProxyURL = strings.TrimSpace(c.HTTP.ProxyURL)
	if c.HTTP.ProxyURL != "" {
		pu, err := url.Parse(c.HTTP.ProxyURL)
		if err != nil || pu.Scheme == "" || pu.Host == "" {
			return fmt.Errorf("http.proxy_url 无效：%q", c.HTTP.ProxyURL)
		}
	}

	c.Store.Path = strings.TrimSpace(c.Store.Path)
	if c.Store.Path == "" {
		c.Store.Path = snapshot.DefaultPath
	}
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	return nil
}

// cleanList 去掉空白项与重复项（保持顺序）。
func cleanList(in []string) []string {
	return lo.Uniq(lo.Compact(lo.Map(in, func(s string, _ int) string {
		return strings.TrimSpace(s)
	})))
}
