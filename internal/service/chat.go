package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"volunteer-connect/internal/logger"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("chat session not found")
	ErrUnknownChatKind = errors.New("unknown chat kind")
)

// ChatService keeps the live conversations in memory. Nothing survives a
// restart.
type ChatService struct {
	mu         sync.Mutex
	convs      map[string]*Conversation
	responders map[ChatKind]Responder
	delay      time.Duration
	idleTTL    time.Duration
	now        func() time.Time
}

func NewChatService(delay, idleTTL time.Duration) *ChatService {
	return &ChatService{
		convs: make(map[string]*Conversation),
		responders: map[ChatKind]Responder{
			ChatWidget:    NewCannedResponder(Replies(ChatWidget)),
			ChatAssistant: NewCannedResponder(Replies(ChatAssistant)),
		},
		delay:   delay,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// SetResponder swaps the reply source for conversations of kind created
// afterwards.
func (s *ChatService) SetResponder(kind ChatKind, r Responder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responders[kind] = r
}

func (s *ChatService) Create(kind ChatKind) (*Conversation, error) {
	if !validChatKind(kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChatKind, kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := newConversation(uuid.NewString(), kind, Greeting(kind), s.responders[kind], s.delay, s.now)
	s.convs[conv.ID()] = conv
	logger.Debug("chat.session.created", "id", conv.ID(), "kind", kind)
	return conv, nil
}

func (s *ChatService) Get(id string) (*Conversation, error) {
	s.mu.Lock()
	conv, ok := s.convs[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	conv.touch()
	return conv, nil
}

// Delete closes the conversation; a reply still pending is dropped.
func (s *ChatService) Delete(id string) error {
	s.mu.Lock()
	conv, ok := s.convs[id]
	delete(s.convs, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	conv.Close()
	return nil
}

func (s *ChatService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.convs)
}

// Sweep closes conversations idle for longer than the TTL and returns how many
// were removed.
func (s *ChatService) Sweep() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	var stale []*Conversation
	for id, conv := range s.convs {
		if conv.idleSince(cutoff) {
			stale = append(stale, conv)
			delete(s.convs, id)
		}
	}
	s.mu.Unlock()

	for _, conv := range stale {
		conv.Close()
	}
	return len(stale)
}

// RunJanitor sweeps idle conversations every interval until ctx is done.
func (s *ChatService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Info("chat.sweep", "removed", n)
			}
		}
	}
}
