package service

import (
	"context"
	"math/rand/v2"
)

// ChatKind selects the greeting and reply script of a conversation.
type ChatKind string

const (
	// ChatWidget is the quick chat that floats on every page.
	ChatWidget ChatKind = "widget"
	// ChatAssistant is the full volunteer matching assistant page.
	ChatAssistant ChatKind = "assistant"
)

type chatScript struct {
	greeting string
	replies  []string
}

var chatScripts = map[ChatKind]chatScript{
	ChatWidget: {
		greeting: "Hi there! How can I help you with volunteering today?",
		replies: []string{
			"I found several volunteers who might be able to help with that.",
			"Would you like to see more information about our volunteer opportunities?",
			"For more detailed assistance, you can visit our full chatbot page.",
			"That's a great question! Let me help you find the right volunteer.",
			"I can connect you with experienced volunteers in that area.",
		},
	},
	ChatAssistant: {
		greeting: "Hello! I'm the VolunteerConnect assistant. How can I help you find volunteers today?",
		replies: []string{
			"I found several volunteers who match your criteria. Would you like to see their profiles?",
			"Could you tell me more about the specific skills you're looking for?",
			"What time commitment are you expecting from volunteers?",
			"I have 3 volunteers with experience in that area. Would you like me to connect you with them?",
			"Based on your needs, I recommend focusing on volunteers with backgrounds in web development and graphic design.",
			"When would you need these volunteers to start?",
		},
	},
}

// SuggestedQuestions are offered as one-click prompts on the assistant page.
var SuggestedQuestions = []string{
	"I need a web developer for our nonprofit",
	"Looking for volunteers with marketing skills",
	"Need help with an upcoming fundraising event",
	"Searching for remote volunteer opportunities",
	"What skills are most in demand for volunteers?",
	"How do I create a volunteer request?",
}

// Replies returns the candidate bot replies for kind.
func Replies(kind ChatKind) []string {
	return append([]string(nil), chatScripts[kind].replies...)
}

func Greeting(kind ChatKind) string {
	return chatScripts[kind].greeting
}

func validChatKind(kind ChatKind) bool {
	_, ok := chatScripts[kind]
	return ok
}

// CannedResponder answers with a reply picked uniformly at random from a fixed
// list. It ignores the conversation history.
type CannedResponder struct {
	replies []string
	pick    func(n int) int
}

func NewCannedResponder(replies []string) *CannedResponder {
	return &CannedResponder{replies: replies, pick: rand.IntN}
}

func (r *CannedResponder) Reply(_ context.Context, _ []Message) (string, error) {
	return r.replies[r.pick(len(r.replies))], nil
}
