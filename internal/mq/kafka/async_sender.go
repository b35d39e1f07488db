package kafka

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-sysadmin/internal/logging"
)

// AsyncMessage 入队的待发送消息，Ctx 仅用于 trace 关联
type AsyncMessage struct {
	Ctx     context.Context
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// AsyncSender 有界异步发送：请求路径只入队，worker 负责真正写 Kafka
// 队列满直接丢弃，操作日志允许有损
type AsyncSender struct {
	producer *Producer
	logger   *logging.Logger
	queue    chan AsyncMessage
	workers  int
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewAsyncSender(p *Producer, l *logging.Logger, queueSize, workers int) *AsyncSender {
	if queueSize <= 0 {
		queueSize = 4096
	}
	if workers <= 0 {
		workers = 1
	}
	return &AsyncSender{
		producer: p,
		logger:   l,
		queue:    make(chan AsyncMessage, queueSize),
		workers:  workers,
		stopCh:   make(chan struct{}),
	}
}

func (s *AsyncSender) Start() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.stopCh:
					// 退出前把队列里剩余的发完
					for {
						select {
						case m := <-s.queue:
							s.send(m)
						default:
							return
						}
					}
				case m := <-s.queue:
					s.send(m)
				}
			}
		}()
	}
}

func (s *AsyncSender) send(m AsyncMessage) {
	ctx := m.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.producer.SendWithHeaders(sendCtx, m.Key, m.Value, m.Headers); err != nil && s.logger != nil {
		s.logger.Warn("async kafka send failed", zap.Error(err))
	}
}

// Enqueue 非阻塞入队，满则丢弃
func (s *AsyncSender) Enqueue(m AsyncMessage) bool {
	select {
	case s.queue <- m:
		return true
	default:
		return false
	}
}

func (s *AsyncSender) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}
