package exposure

import (
	"context"
	"log/slog"
	"sync"
)

// DefaultBufferSize 是异步收集器的默认缓冲条数。
const DefaultBufferSize = 1024

// Sink 是曝光事件的最终去向（日志管道、消息队列、文件等）。
type Sink interface {
	Write(ctx context.Context, event Event) error
}

// AsyncCollector 是带缓冲通道的异步收集器：Log 只做入队，满了就丢弃。
// 丢事件优于拖慢 Feed 主路径——曝光日志是旁路信号，不是业务数据。
type AsyncCollector struct {
	sink   Sink
	logger *slog.Logger

	ch chan Event
	wg sync.WaitGroup

	// closeMu 保证 Close 关闭通道时没有在途的 Log 发送
	closeMu sync.RWMutex
	closed  bool
}

// NewAsyncCollector 创建并启动异步收集器。bufferSize <= 0 用默认值。
func NewAsyncCollector(sink Sink, bufferSize int, logger *slog.Logger) *AsyncCollector {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &AsyncCollector{
		sink:   sink,
		logger: logger,
		ch:     make(chan Event, bufferSize),
	}
	c.wg.Add(1)
	go c.run()
	return c
}

var _ Collector = (*AsyncCollector)(nil)

// Log 入队一次曝光；缓冲满或收集器已关闭时直接丢弃。
func (c *AsyncCollector) Log(_ context.Context, event Event) {
	c.closeMu.RLock()
	defer c.closeMu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.ch <- event:
	default:
		c.logger.Debug("exposure buffer full, event dropped", "user_id", event.UserID)
	}
}

// Close 停止接收新事件并送完缓冲中的事件。
func (c *AsyncCollector) Close() error {
	c.closeMu.Lock()
	if !c.closed {
		c.closed = true
		close(c.ch)
	}
	c.closeMu.Unlock()
	c.wg.Wait()
	return nil
}

func (c *AsyncCollector) run() {
	defer c.wg.Done()
	for event := range c.ch {
		if c.sink == nil {
			continue
		}
		if err := c.sink.Write(context.Background(), event); err != nil {
			c.logger.Warn("exposure sink write failed", "user_id", event.UserID, "err", err)
		}
	}
}

// SlogSink 把曝光事件打到结构化日志，开发/排查用的默认 Sink。
type SlogSink struct {
	Logger *slog.Logger
}

func (s *SlogSink) Write(_ context.Context, event Event) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("feed exposure",
		"user_id", event.UserID,
		"variant", event.Variant,
		"items", len(event.Items),
	)
	return nil
}
