// Package logging 配置全局 slog 日志：控制台文本或 JSON 输出，可选 lumberjack 滚动文件。
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options 控制日志初始化。
type Options struct {
	Level  string // debug|info|warn|error
	Format string // console|json
	File   string // 非空时额外写入滚动文件（JSON）
}

var (
	mu      sync.RWMutex
	current *slog.Logger
	closer  io.Closer
)

// L 返回全局日志；未初始化时使用 slog.Default()。
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return slog.Default()
	}
	return current
}

// Init 按 opts 构建日志并设为 slog 默认值，控制台输出写到 stderr。
func Init(opts Options) *slog.Logger {
	return InitWriter(opts, os.Stderr)
}

// InitWriter 与 Init 相同，但控制台输出写入 console。
func InitWriter(opts Options, console io.Writer) *slog.Logger {
	lvl := ParseLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: lvl}

	var handlers []slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		handlers = append(handlers, slog.NewJSONHandler(console, hopts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(console, hopts))
	}

	var fileSink io.Closer
	if path := strings.TrimSpace(opts.File); path != "" {
		w := &lj.Logger{Filename: path, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		handlers = append(handlers, slog.NewJSONHandler(w, hopts))
		fileSink = w
	}

	h := handlers[0]
	if len(handlers) > 1 {
		h = &multi{hs: handlers}
	}
	logger := slog.New(h).With(slog.String("app", "tracksheet"))

	mu.Lock()
	if closer != nil {
		_ = closer.Close()
	}
	current, closer = logger, fileSink
	mu.Unlock()
	slog.SetDefault(logger)
	return logger
}

// Close 关闭滚动文件（如有）。
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

// WithComponent 返回带 component 属性的日志。
func WithComponent(name string) *slog.Logger {
	return L().With(slog.String("component", name))
}

// ParseLevel 将字符串转为 slog.Level，无法识别时为 info。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// multi 将记录分发给多个 handler。
type multi struct{ hs []slog.Handler }

func (m *multi) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multi) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m.hs {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *multi) WithAttrs(attrs []slog.Attr) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithAttrs(attrs)
	}
	return &multi{hs: res}
}

func (m *multi) WithGroup(name string) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithGroup(name)
	}
	return &multi{hs: res}
}
