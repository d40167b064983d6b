package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"volunteer-connect/internal/logger"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type Message struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

var (
	ErrEmptyMessage       = errors.New("message is empty")
	ErrReplyPending       = errors.New("a reply is still pending")
	ErrConversationClosed = errors.New("conversation is closed")
)

// Responder produces the bot side of a conversation.
type Responder interface {
	Reply(ctx context.Context, history []Message) (string, error)
}

const subscriberBuffer = 16

// Conversation is one chat thread: a seeded greeting, user messages appended
// on submit and one bot reply appended after a fixed delay.
type Conversation struct {
	mu         sync.Mutex
	id         string
	kind       ChatKind
	greeting   string
	responder  Responder
	delay      time.Duration
	now        func() time.Time
	messages   []Message
	lastID     int
	loading    bool
	closed     bool
	generation int
	lastActive time.Time
	subs       map[int]chan Message
	nextSub    int
}

func newConversation(id string, kind ChatKind, greeting string, responder Responder, delay time.Duration, now func() time.Time) *Conversation {
	c := &Conversation{
		id:        id,
		kind:      kind,
		greeting:  greeting,
		responder: responder,
		delay:     delay,
		now:       now,
		subs:      make(map[int]chan Message),
	}
	c.seedLocked()
	return c
}

func (c *Conversation) ID() string     { return c.id }
func (c *Conversation) Kind() ChatKind { return c.kind }

// Submit appends the user's message and schedules the bot reply. Blank text
// and submits made while a reply is pending are rejected without changes.
func (c *Conversation) Submit(text string) (Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Message{}, ErrConversationClosed
	}
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}
	if c.loading {
		return Message{}, ErrReplyPending
	}

	msg := c.appendLocked(text, SenderUser)
	c.loading = true
	gen := c.generation
	time.AfterFunc(c.delay, func() { c.deliverReply(gen) })
	return msg, nil
}

func (c *Conversation) deliverReply(gen int) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	history := append([]Message(nil), c.messages...)
	c.mu.Unlock()

	text, err := c.responder.Reply(context.Background(), history)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		return
	}
	c.loading = false
	if err != nil {
		logger.Warn("chat.reply.failed", "conversation", c.id, "err", err)
		return
	}
	c.appendLocked(text, SenderBot)
}

// Reset drops the thread back to the greeting. A reply still in flight is
// discarded.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.generation++
	c.loading = false
	c.seedLocked()
}

// Close discards any pending reply and ends all subscriptions.
func (c *Conversation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
}

func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

func (c *Conversation) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Subscribe streams every message appended after the call. The channel is
// closed when the conversation closes or cancel is called; slow readers miss
// messages rather than block the conversation.
func (c *Conversation) Subscribe() (<-chan Message, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Message, subscriberBuffer)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				close(sub)
				delete(c.subs, id)
			}
		})
	}
}

func (c *Conversation) touch() {
	c.mu.Lock()
	c.lastActive = c.now()
	c.mu.Unlock()
}

func (c *Conversation) idleSince(cutoff time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.loading && c.lastActive.Before(cutoff)
}

func (c *Conversation) seedLocked() {
	c.lastID = 0
	c.messages = nil
	c.appendLocked(c.greeting, SenderBot)
}

func (c *Conversation) appendLocked(text string, sender Sender) Message {
	c.lastID++
	now := c.now()
	msg := Message{ID: c.lastID, Text: text, Sender: sender, Timestamp: now}
	c.messages = append(c.messages, msg)
	c.lastActive = now
	c.publishLocked(msg)
	return msg
}

func (c *Conversation) publishLocked(msg Message) {
	for _, ch := range c.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}
