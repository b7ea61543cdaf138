package conversation_test

import (
	"context"
	"testing"
	"time"

	"github.com/carelinehq/careline/backend/internal/model/chat"
	"github.com/carelinehq/careline/backend/internal/service/conversation"
)

// scriptedResponder returns a canned bot message, optionally blocking
// until released so tests can observe the pending state.
type scriptedResponder struct {
	reply   chat.Message
	release chan struct{}
}

func (r *scriptedResponder) Respond(_ context.Context, _ string) chat.Message {
	if r.release != nil {
		<-r.release
	}
	return r.reply
}

func supportReply(text string) chat.Message {
	return chat.Message{
		ID:        "bot-1",
		Sender:    chat.SenderBot,
		Category:  chat.CategorySupport,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

func TestNewServiceSeedsGreeting(t *testing.T) {
	svc := conversation.NewService(&scriptedResponder{reply: supportReply("hi")})

	messages, pending := svc.Snapshot()
	if len(messages) != 1 {
		t.Fatalf("expected 1 seeded message, got %d", len(messages))
	}
	if messages[0].Sender != chat.SenderBot {
		t.Fatalf("expected bot greeting, got sender %s", messages[0].Sender)
	}
	if messages[0].Category != chat.CategoryInitial {
		t.Fatalf("expected initial category, got %s", messages[0].Category)
	}
	if messages[0].Text == "" {
		t.Fatal("expected greeting text")
	}
	if pending {
		t.Fatal("expected pending false before any submission")
	}
}

func TestSubmitAppendsUserThenBot(t *testing.T) {
	svc := conversation.NewService(&scriptedResponder{reply: supportReply("I hear you.")})

	if !svc.Submit(context.Background(), "  I feel anxious  ") {
		t.Fatal("expected submission to be accepted")
	}

	messages, pending := svc.Snapshot()
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[1].Sender != chat.SenderUser || messages[1].Text != "I feel anxious" {
		t.Fatalf("unexpected user message: %+v", messages[1])
	}
	if messages[1].Category != "" {
		t.Fatalf("user messages carry no category, got %s", messages[1].Category)
	}
	if messages[2].Sender != chat.SenderBot || messages[2].Text != "I hear you." {
		t.Fatalf("unexpected bot message: %+v", messages[2])
	}
	if pending {
		t.Fatal("expected pending false after the turn resolved")
	}
}

func TestSubmitRejectsWhitespace(t *testing.T) {
	svc := conversation.NewService(&scriptedResponder{reply: supportReply("hi")})

	if svc.Submit(context.Background(), "   ") {
		t.Fatal("expected whitespace submission to be rejected")
	}

	messages, pending := svc.Snapshot()
	if len(messages) != 1 {
		t.Fatalf("expected no appends, got %d messages", len(messages))
	}
	if pending {
		t.Fatal("expected pending to stay false")
	}
}

func TestSubmitRejectsWhilePending(t *testing.T) {
	responder := &scriptedResponder{
		reply:   supportReply("done"),
		release: make(chan struct{}),
	}
	svc := conversation.NewService(responder)

	first := make(chan bool, 1)
	go func() {
		first <- svc.Submit(context.Background(), "first")
	}()

	waitForPending(t, svc)

	if svc.Submit(context.Background(), "second") {
		t.Fatal("expected submission to be rejected while a turn is pending")
	}

	messages, pending := svc.Snapshot()
	if len(messages) != 2 {
		t.Fatalf("rejected submission must not append, got %d messages", len(messages))
	}
	if !pending {
		t.Fatal("expected pending to remain true")
	}

	close(responder.release)
	if !<-first {
		t.Fatal("expected first submission to be accepted")
	}

	messages, pending = svc.Snapshot()
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages after the turn resolved, got %d", len(messages))
	}
	if pending {
		t.Fatal("expected pending false after the turn resolved")
	}
}

func TestAppendMonotonicity(t *testing.T) {
	svc := conversation.NewService(&scriptedResponder{reply: supportReply("ok")})

	const turns = 5
	for i := 0; i < turns; i++ {
		if !svc.Submit(context.Background(), "hello") {
			t.Fatalf("turn %d: expected acceptance", i)
		}
	}

	messages, _ := svc.Snapshot()
	if len(messages) != 1+2*turns {
		t.Fatalf("expected %d messages after %d turns, got %d", 1+2*turns, turns, len(messages))
	}
	for i, msg := range messages[1:] {
		wantSender := chat.SenderUser
		if i%2 == 1 {
			wantSender = chat.SenderBot
		}
		if msg.Sender != wantSender {
			t.Fatalf("message %d: expected sender %s, got %s", i+1, wantSender, msg.Sender)
		}
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	svc := conversation.NewService(&scriptedResponder{reply: supportReply("ok")})

	messages, _ := svc.Snapshot()
	messages[0].Text = "tampered"

	fresh, _ := svc.Snapshot()
	if fresh[0].Text == "tampered" {
		t.Fatal("snapshot must be isolated from the store")
	}
}

func TestSubscribeSignalsOnChange(t *testing.T) {
	svc := conversation.NewService(&scriptedResponder{reply: supportReply("ok")})

	changes, cancel := svc.Subscribe()
	defer cancel()

	if !svc.Submit(context.Background(), "hello") {
		t.Fatal("expected acceptance")
	}

	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}
}

func waitForPending(t *testing.T, svc *conversation.Service) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, pending := svc.Snapshot(); pending {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for pending state")
}
