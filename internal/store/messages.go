package store

import (
	"context"
	"slices"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
	"github.com/hackgods/healthcare-marketplace/internal/remote"
	"github.com/hackgods/healthcare-marketplace/internal/state"
)

const (
	OpFetchConversations = KeyMessages + "/fetchAll"
	OpFetchConversation  = KeyMessages + "/fetchOne"
	OpSendMessage        = KeyMessages + "/send"
)

var messageMerges = map[string]state.Merge{
	OpFetchConversations: state.MergeReplaceAll,
	OpFetchConversation:  state.MergeSelect,
	OpSendMessage:        state.MergeNone,
}

// Conversations can be read by either role; as picks the token.
func (s *Store) FetchConversations(ctx context.Context, as remote.Role) ([]marketplace.Conversation, error) {
	op := operation(OpFetchConversations, nil, func(ctx context.Context) ([]marketplace.Conversation, error) {
		return s.client.Messages().Conversations(ctx, as)
	})
	return run[[]marketplace.Conversation](ctx, s, op)
}

func (s *Store) FetchConversation(ctx context.Context, as remote.Role, id string) (marketplace.Conversation, error) {
	op := operation(OpFetchConversation, id, func(ctx context.Context) (marketplace.Conversation, error) {
		return s.client.Messages().Conversation(ctx, as, id)
	})
	return run[marketplace.Conversation](ctx, s, op)
}

func (s *Store) SendMessage(ctx context.Context, as remote.Role, req marketplace.SendMessageRequest) (marketplace.Message, error) {
	op := operation(OpSendMessage, req.ConversationID, func(ctx context.Context) (marketplace.Message, error) {
		return s.client.Messages().Send(ctx, as, req)
	})
	return run[marketplace.Message](ctx, s, op)
}

// reduceMessages appends a sent message to its conversation, both in the list
// and in the selected conversation.
func reduceMessages(s state.Slice[marketplace.Conversation], a state.Action) state.Slice[marketplace.Conversation] {
	s = reduceSlice(s, a, messageMerges)
	if a.Type != OpSendMessage || a.Phase != state.Fulfilled {
		return s
	}
	msg, ok := a.Payload.(marketplace.Message)
	if !ok {
		return s
	}

	items := slices.Clone(s.Items)
	for i := range items {
		if items[i].ID == msg.ConversationID {
			items[i].Messages = append(slices.Clone(items[i].Messages), msg)
		}
	}
	s.Items = items
	if s.Selected != nil && s.Selected.ID == msg.ConversationID {
		sel := *s.Selected
		sel.Messages = append(slices.Clone(sel.Messages), msg)
		s.Selected = &sel
	}
	return s
}
