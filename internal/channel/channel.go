package channel

import "context"

// InboundMessage is one user message as delivered by a transport.
type InboundMessage struct {
	ConversationID string
	Text           string
}

// Sender delivers a reply back through the transport the message came from.
type Sender interface {
	Send(ctx context.Context, conversationID, text string) error
}

// Handler processes one inbound message and replies through sender.
type Handler interface {
	HandleMessage(ctx context.Context, sender Sender, msg InboundMessage)
}

// SenderFunc adapts a plain function to Sender.
type SenderFunc func(ctx context.Context, conversationID, text string) error

func (f SenderFunc) Send(ctx context.Context, conversationID, text string) error {
	return f(ctx, conversationID, text)
}
