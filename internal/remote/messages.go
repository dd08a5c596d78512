package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

// Messages is shared by both roles; the caller says which token to carry.
type Messages struct{ c *Client }

func (c *Client) Messages() Messages { return Messages{c} }

func (m Messages) Conversations(ctx context.Context, as Role) ([]marketplace.Conversation, error) {
	var out []marketplace.Conversation
	err := m.c.do(ctx, call{resource: "messages", method: http.MethodGet, path: "/messages/conversations", role: as, fallback: "Failed to fetch conversations"}, &out)
	return out, err
}

func (m Messages) Conversation(ctx context.Context, as Role, id string) (marketplace.Conversation, error) {
	var out marketplace.Conversation
	err := m.c.do(ctx, call{resource: "messages", method: http.MethodGet, path: "/messages/" + url.PathEscape(id), role: as, fallback: "Failed to fetch messages"}, &out)
	return out, err
}

func (m Messages) Send(ctx context.Context, as Role, req marketplace.SendMessageRequest) (marketplace.Message, error) {
	var out marketplace.Message
	err := m.c.do(ctx, call{resource: "messages", method: http.MethodPost, path: "/messages", role: as, body: req, fallback: "Failed to send message"}, &out)
	return out, err
}
