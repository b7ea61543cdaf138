package classifier

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/carelinehq/careline/backend/internal/model/chat"
)

// Fixed texts used when the service reply is unusable or absent.
const (
	missingResponseText = "I didn't receive a valid text response."
	crisisFallbackText  = "I'm having trouble reaching the support service right now. " +
		"If you are in crisis or need immediate support, please call or text 988 " +
		"to reach the Suicide & Crisis Lifeline."
)

// Classify maps a raw service reply, or its absence, to exactly one
// bot message. A nil reply means the request failed terminally and
// yields the fixed crisis fallback. Classify never fails.
func Classify(reply *Reply) chat.Message {
	msg := chat.Message{
		ID:        uuid.NewString(),
		Sender:    chat.SenderBot,
		CreatedAt: time.Now().UTC(),
	}

	if reply == nil {
		msg.Category = chat.CategoryCrisis
		msg.Text = crisisFallbackText
		return msg
	}

	// Only an explicit crisis status escalates; unknown or missing
	// statuses read as support. Payload content alone can never reach
	// the crisis fallback.
	switch reply.Status {
	case chat.CategoryCrisis:
		msg.Category = chat.CategoryCrisis
	default:
		msg.Category = chat.CategorySupport
	}

	msg.Text = reply.Response
	if msg.Text == "" {
		msg.Text = missingResponseText
	}
	msg.Citation = reply.SourceInfo

	return msg
}

// Respond runs one request and classifies its outcome. A terminally
// failed request is absorbed into the crisis fallback, so the caller
// always receives a single bot message and never an error.
func (c *Client) Respond(ctx context.Context, text string) chat.Message {
	reply, err := c.Execute(ctx, text)
	if err != nil {
		log.Printf("[classifier] request failed terminally: %v", err)
		return Classify(nil)
	}
	return Classify(reply)
}
