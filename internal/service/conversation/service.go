package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carelinehq/careline/backend/internal/model/chat"
)

// greetingText opens every conversation before any user interaction.
const greetingText = "Hi, I'm here to listen. What's on your mind today?"

// Responder produces exactly one bot message for a user's text. It
// must not fail; unreachable-service handling happens behind it.
type Responder interface {
	Respond(ctx context.Context, text string) chat.Message
}

// Service owns the single conversation of this process: an append-only
// message log plus the pending flag that gates submissions. Messages
// are only ever appended, never updated or removed.
type Service struct {
	responder Responder

	mu       sync.RWMutex
	messages []chat.Message
	pending  bool
	subs     map[int]chan struct{}
	nextSub  int
}

// NewService seeds the conversation with the initial greeting.
func NewService(responder Responder) *Service {
	s := &Service{
		responder: responder,
		messages:  make([]chat.Message, 0, 16),
		subs:      make(map[int]chan struct{}),
	}

	s.messages = append(s.messages, chat.Message{
		ID:        uuid.NewString(),
		Sender:    chat.SenderBot,
		Category:  chat.CategoryInitial,
		Text:      greetingText,
		CreatedAt: time.Now().UTC(),
	})

	return s
}

// Submit runs one turn: the trimmed user message is appended, the
// responder is consulted, and its single bot message is appended.
// Returns false with no state change when the text trims to empty or
// a turn is already pending; rejected submissions are dropped, not
// queued. Submit never returns an error — a terminally failed request
// still resolves the turn with a bot message.
func (s *Service) Submit(ctx context.Context, text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return false
	}
	s.pending = true
	s.messages = append(s.messages, chat.Message{
		ID:        uuid.NewString(),
		Sender:    chat.SenderUser,
		Text:      trimmed,
		CreatedAt: time.Now().UTC(),
	})
	s.mu.Unlock()
	s.notify()

	// The network call happens outside the lock; reads stay serviceable
	// while the turn is in flight.
	reply := s.responder.Respond(ctx, trimmed)

	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.pending = false
	s.mu.Unlock()
	s.notify()

	return true
}

// Snapshot returns a copy of the message log and the pending flag.
func (s *Service) Snapshot() ([]chat.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]chat.Message, len(s.messages))
	copy(copied, s.messages)
	return copied, s.pending
}

// Subscribe registers for change notifications. Each subscriber channel
// carries at most one undelivered signal; signals a slow consumer has
// not drained are dropped. The returned cancel must be called when the
// subscriber goes away.
func (s *Service) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Service) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
