package notify

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/coursedesk/coursedesk/pkg/config"
)

// Kind tags a message as positive or negative feedback.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Message is one transient feedback entry keyed by the item it concerns.
type Message struct {
	Key  string
	Kind Kind
	Text string
}

type timer interface {
	Stop() bool
}

type entry struct {
	msg   Message
	timer timer
	seq   uint64
}

// Scheduler stores transient success/error messages and expires them after a
// per-kind TTL. A second Notify for the same key replaces both the message and
// its pending timer; messages never stack and timers never leak.
type Scheduler struct {
	mu      sync.Mutex
	entries map[string]*entry
	seq     uint64
	stopped bool

	successTTL time.Duration
	errorTTL   time.Duration
	logger     *zap.Logger

	// newTimer is swapped out by tests to drive expiry deterministically.
	newTimer func(d time.Duration, f func()) timer
}

// NewScheduler builds a Scheduler with the configured TTLs (3s success, 5s
// error by default).
func NewScheduler(cfg config.NotifyConfig, logger *zap.Logger) *Scheduler {
	if cfg.SuccessTTL <= 0 {
		cfg.SuccessTTL = 3 * time.Second
	}
	if cfg.ErrorTTL <= 0 {
		cfg.ErrorTTL = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		entries:    make(map[string]*entry),
		successTTL: cfg.SuccessTTL,
		errorTTL:   cfg.ErrorTTL,
		logger:     logger,
		newTimer: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
	}
}

// Notify stores a message under key and schedules its removal after the
// kind's default TTL.
func (s *Scheduler) Notify(key string, kind Kind, text string) {
	ttl := s.successTTL
	if kind == KindError {
		ttl = s.errorTTL
	}
	s.NotifyTTL(key, kind, text, ttl)
}

// NotifyTTL is Notify with an explicit TTL. Replacing an existing message for
// the same key cancels its pending expiry first.
func (s *Scheduler) NotifyTTL(key string, kind Kind, text string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	if existing, ok := s.entries[key]; ok {
		existing.timer.Stop()
	}

	s.seq++
	seq := s.seq
	e := &entry{msg: Message{Key: key, Kind: kind, Text: text}, seq: seq}
	e.timer = s.newTimer(ttl, func() { s.expire(key, seq) })
	s.entries[key] = e
}

// expire removes the entry for key unless it was replaced since scheduling.
// The sequence check covers the window where Stop races a fired timer.
func (s *Scheduler) expire(key string, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok && e.seq == seq {
		delete(s.entries, key)
	}
}

// Clear removes the message for key immediately, cancelling its timer. Used
// when the key's owning item leaves the collection, so a notification never
// outlives its subject.
func (s *Scheduler) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.timer.Stop()
		delete(s.entries, key)
	}
}

// Message returns the currently visible message for key, if any.
func (s *Scheduler) Message(key string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		return e.msg, true
	}
	return Message{}, false
}

// Active returns a snapshot of every visible message, ordered by key.
func (s *Scheduler) Active() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]Message, 0, len(s.entries))
	for _, e := range s.entries {
		msgs = append(msgs, e.msg)
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].Key < msgs[j].Key })
	return msgs
}

// Stop cancels every pending timer and rejects further notifications.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for key, e := range s.entries {
		e.timer.Stop()
		delete(s.entries, key)
	}
}
