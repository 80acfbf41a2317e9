// Package logging 基于 zerolog 构建日志实例。
//
//	log := logging.New(logging.Config{Level: "debug", Format: "console"})
//	log.Info().Str("mode", "cabinet").Int("count", 3).Msg("refreshed")
//
// 不维护全局 logger：引擎通过 engine.WithLogger 注入实例。
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config 是日志配置。
type Config struct {
	// Level: trace, debug, info, warn, error。默认 info
	Level string
	// Format: json 或 console。默认 json
	Format string
	// Output 默认 os.Stderr
	Output io.Writer
}

// New 创建 logger，带时间戳。
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
}

// ParseLevel 解析日志级别，无法识别时返回 info。
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
