package session

import (
	// Packages
	schema "github.com/mutablelogic/go-agent/pkg/schema"
	types "github.com/mutablelogic/go-agent/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Session is an ordered list of messages exchanged with an LLM. Messages
// are addressed by their identifier.
type Session struct {
	messages []*schema.Message
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewSession creates a session with the given initial messages
func NewSession(messages ...*schema.Message) *Session {
	return &Session{
		messages: append(make([]*schema.Message, 0, max(len(messages), 10)), messages...),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Append adds messages to the end of the session
func (s *Session) Append(messages ...*schema.Message) {
	s.messages = append(s.messages, messages...)
}

// Pop removes and returns the last message, or nil if the session is empty
func (s *Session) Pop() *schema.Message {
	if len(s.messages) == 0 {
		return nil
	}
	last := s.messages[len(s.messages)-1]
	s.messages = s.messages[:len(s.messages)-1]
	return last
}

// Clear removes all messages from the session
func (s *Session) Clear() {
	s.messages = s.messages[:0]
}

// Count returns the number of messages in the session
func (s *Session) Count() int {
	return len(s.messages)
}

// Last returns the last message, or nil if the session is empty
func (s *Session) Last() *schema.Message {
	if len(s.messages) == 0 {
		return nil
	}
	return s.messages[len(s.messages)-1]
}

// Get returns the message with the given identifier, or nil if not found
func (s *Session) Get(id string) *schema.Message {
	for _, message := range s.messages {
		if message.ID == id {
			return message
		}
	}
	return nil
}

// Remove deletes the message with the given identifier, returning the
// removed message or nil if not found
func (s *Session) Remove(id string) *schema.Message {
	for i, message := range s.messages {
		if message.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return message
		}
	}
	return nil
}

// Update replaces the message with the given identifier, returning false
// if no such message exists
func (s *Session) Update(id string, message *schema.Message) bool {
	for i, existing := range s.messages {
		if existing.ID == id {
			s.messages[i] = message
			return true
		}
	}
	return false
}

// Replace swaps the entire message list
func (s *Session) Replace(messages []*schema.Message) {
	s.messages = append(s.messages[:0], messages...)
}

// Messages returns the messages in the session
func (s *Session) Messages() []*schema.Message {
	return s.messages
}

// Copy returns a deep copy of the session, safe for external retention
// and mutation
func (s *Session) Copy() *Session {
	copied := make([]*schema.Message, len(s.messages))
	for i, message := range s.messages {
		copied[i] = message.Copy()
	}
	return &Session{messages: copied}
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (s *Session) String() string {
	return types.Stringify(s.messages)
}
