package logging

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var errEmptyLogstashAddr = errors.New("logstash: empty address")

// LogstashWriter ships zerolog lines at or above its level to a Logstash TCP
// input. Lines are queued and sent from a single goroutine; a full queue or an
// unreachable Logstash drops lines instead of stalling the request path.
type LogstashWriter struct {
	addr          string
	level         zerolog.Level
	dialTimeout   time.Duration
	writeTimeout  time.Duration
	retryInterval time.Duration

	queue   chan []byte
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	dropped atomic.Uint64
}

var _ zerolog.LevelWriter = (*LogstashWriter)(nil)

type LogstashOption func(*LogstashWriter)

// WithShipLevel sets the lowest level forwarded to Logstash.
func WithShipLevel(level zerolog.Level) LogstashOption {
	return func(w *LogstashWriter) { w.level = level }
}

func WithQueueSize(n int) LogstashOption {
	return func(w *LogstashWriter) {
		if n > 0 {
			w.queue = make(chan []byte, n)
		}
	}
}

func WithDialTimeout(d time.Duration) LogstashOption {
	return func(w *LogstashWriter) { w.dialTimeout = d }
}

func WithWriteTimeout(d time.Duration) LogstashOption {
	return func(w *LogstashWriter) { w.writeTimeout = d }
}

// WithRetryInterval sets how long the shipper waits after a failed dial or
// write before connecting again. Lines arriving meanwhile are dropped.
func WithRetryInterval(d time.Duration) LogstashOption {
	return func(w *LogstashWriter) { w.retryInterval = d }
}

func NewLogstashWriter(addr string, opts ...LogstashOption) (*LogstashWriter, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errEmptyLogstashAddr
	}
	w := &LogstashWriter{
		addr:          addr,
		level:         zerolog.InfoLevel,
		dialTimeout:   2 * time.Second,
		writeTimeout:  time.Second,
		retryInterval: 5 * time.Second,
		queue:         make(chan []byte, 1024),
		done:          make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.run()
	return w, nil
}

// Write queues p without level information; it is always shipped.
func (w *LogstashWriter) Write(p []byte) (int, error) {
	return w.enqueue(p)
}

// WriteLevel queues p when level reaches the configured ship level.
func (w *LogstashWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < w.level {
		return len(p), nil
	}
	return w.enqueue(p)
}

// Dropped reports how many lines were discarded so far.
func (w *LogstashWriter) Dropped() uint64 {
	return w.dropped.Load()
}

// Close stops the shipper after flushing whatever is already queued to the
// current connection.
func (w *LogstashWriter) Close() error {
	w.once.Do(func() { close(w.done) })
	<-w.stopped
	return nil
}

func (w *LogstashWriter) enqueue(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	select {
	case <-w.done:
		return 0, io.ErrClosedPipe
	default:
	}

	line := make([]byte, len(p), len(p)+1)
	copy(line, p)
	if line[len(line)-1] != '\n' {
		line = append(line, '\n')
	}

	select {
	case w.queue <- line:
	default:
		w.dropped.Add(1)
	}
	return len(p), nil
}

func (w *LogstashWriter) run() {
	defer close(w.stopped)

	var (
		conn      net.Conn
		nextRetry time.Time
	)
	defer func() {
		if conn != nil {
			_ = conn.Close()
		}
	}()

	ship := func(line []byte) {
		if conn == nil {
			if time.Now().Before(nextRetry) {
				w.dropped.Add(1)
				return
			}
			c, err := net.DialTimeout("tcp", w.addr, w.dialTimeout)
			if err != nil {
				nextRetry = time.Now().Add(w.retryInterval)
				w.dropped.Add(1)
				return
			}
			conn = c
		}
		if w.writeTimeout > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(w.writeTimeout))
		}
		if _, err := conn.Write(line); err != nil {
			_ = conn.Close()
			conn = nil
			nextRetry = time.Now().Add(w.retryInterval)
			w.dropped.Add(1)
		}
	}

	for {
		select {
		case line := <-w.queue:
			ship(line)
		case <-w.done:
			for {
				select {
				case line := <-w.queue:
					ship(line)
				default:
					return
				}
			}
		}
	}
}
