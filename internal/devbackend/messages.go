package devbackend

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

func participant(p Principal, c marketplace.Conversation) bool {
	switch p.Role {
	case marketplace.RolePatient:
		return c.PatientID == p.ID
	case marketplace.RoleDoctor:
		return c.DoctorID == p.ID
	default:
		return false
	}
}

// Conversations lists the threads p takes part in, without their messages.
func (b *Backend) Conversations(p Principal) []marketplace.Conversation {
	b.mu.RLock()
	defer b.mu.RUnlock()
	convs := b.conversations.list(func(c marketplace.Conversation) bool { return participant(p, c) })
	for i := range convs {
		convs[i].Messages = nil
	}
	return convs
}

func (b *Backend) Conversation(p Principal, id string) (marketplace.Conversation, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.conversations.get(id)
	if !ok {
		return c, ErrNotFound
	}
	if !participant(p, c) {
		return marketplace.Conversation{}, ErrForbidden
	}
	c.Messages = slices.Clone(c.Messages)
	return c, nil
}

// Send appends a message to an existing conversation, or opens one between
// the sender and the recipient.
func (b *Backend) Send(p Principal, req marketplace.SendMessageRequest) (marketplace.Message, error) {
	if strings.TrimSpace(req.Body) == "" {
		return marketplace.Message{}, fmt.Errorf("%w: message body is required", ErrInvalidInput)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var conv marketplace.Conversation
	if req.ConversationID != "" {
		c, ok := b.conversations.get(req.ConversationID)
		if !ok {
			return marketplace.Message{}, ErrNotFound
		}
		if !participant(p, c) {
			return marketplace.Message{}, ErrForbidden
		}
		conv = c
	} else {
		c, err := b.openConversation(p, req.RecipientID)
		if err != nil {
			return marketplace.Message{}, err
		}
		conv = c
	}

	msg := marketplace.Message{
		ID:             newID(),
		ConversationID: conv.ID,
		SenderRole:     p.Role,
		SenderID:       p.ID,
		Body:           req.Body,
		SentAt:         b.now().UTC(),
	}
	conv.Messages = append(slices.Clone(conv.Messages), msg)
	b.conversations.put(conv)
	return msg, nil
}

// Callers hold b.mu.
func (b *Backend) openConversation(p Principal, recipient string) (marketplace.Conversation, error) {
	var patient, doctor string
	switch p.Role {
	case marketplace.RolePatient:
		if _, ok := b.doctors.get(recipient); !ok {
			return marketplace.Conversation{}, fmt.Errorf("%w: recipient", ErrNotFound)
		}
		patient, doctor = p.ID, recipient
	case marketplace.RoleDoctor:
		if _, ok := b.patients.get(recipient); !ok {
			return marketplace.Conversation{}, fmt.Errorf("%w: recipient", ErrNotFound)
		}
		patient, doctor = recipient, p.ID
	default:
		return marketplace.Conversation{}, ErrForbidden
	}

	for _, c := range b.conversations.list(nil) {
		if c.PatientID == patient && c.DoctorID == doctor {
			return c, nil
		}
	}
	return marketplace.Conversation{ID: newID(), PatientID: patient, DoctorID: doctor}, nil
}
