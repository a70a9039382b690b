package config

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file on change and hands validated snapshots to
// the callback. A rewrite that fails validation never replaces a running
// config; it is reported through the error handler instead.
type Watcher struct {
	path     string
	cooldown time.Duration
	fsw      *fsnotify.Watcher
	onUpdate func(AppConfig)
	onError  func(error)

	lastReload time.Time
	stopChan   chan struct{}
	doneChan   chan struct{}
}

// NewWatcher 创建配置热更新器。cooldown 避免编辑器连续写入触发多次重载。
func NewWatcher(path string, cooldown time.Duration, onUpdate func(AppConfig)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if cooldown <= 0 {
		cooldown = time.Second
	}
	return &Watcher{
		path:     path,
		cooldown: cooldown,
		fsw:      fsw,
		onUpdate: onUpdate,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}, nil
}

// OnError registers a handler for reload failures. Must be called before Start.
func (w *Watcher) OnError(fn func(error)) { w.onError = fn }

// Start 启动监听。
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.fsw.Add(w.path); err != nil {
		return fmt.Errorf("watch config file: %w", err)
	}
	go w.watch(ctx)
	return nil
}

// Stop 停止监听并关闭底层 watcher。
func (w *Watcher) Stop() error {
	select {
	case <-w.stopChan:
		// 已经停止
	default:
		close(w.stopChan)
	}

	select {
	case <-w.doneChan:
	case <-time.After(time.Second):
		// 超时，watch goroutine 可能没有启动
	}
	return w.fsw.Close()
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneChan)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// 只处理写入和创建事件
			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create {
				w.handleChange()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		}
	}
}

// handleChange 只在 watch goroutine 内调用。
func (w *Watcher) handleChange() {
	if time.Since(w.lastReload) < w.cooldown {
		return
	}
	cfg, err := LoadWithEnvOverrides(w.path)
	if err != nil {
		w.reportError(fmt.Errorf("reload config: %w", err))
		return
	}
	if err := ValidateParams(cfg); err != nil {
		w.reportError(fmt.Errorf("reload config: %w", err))
		return
	}
	w.lastReload = time.Now()
	if w.onUpdate != nil {
		w.onUpdate(cfg)
	}
}

func (w *Watcher) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
