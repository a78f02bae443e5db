// Package intelligence decides how a question is answered: by the hosted
// model when one is configured, otherwise (or when it fails) by the local
// dialogue engine. It also holds the advisory helpers shown next to an
// answer: clarifying questions, follow-ups and the pathway classifier.
package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/sophia/internal/dialogue"
	"github.com/alexanderramin/sophia/internal/domain"
	"github.com/alexanderramin/sophia/internal/knowledge"
	"github.com/alexanderramin/sophia/internal/llm"
)

type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

const disclosureFormat = "I'm having trouble connecting to my enhanced AI system right now. Here's what I can tell you:\n\n%s\n\n(I'll try using AI again for your next question)"

// Answer is the reply to one question.
type Answer struct {
	Text   string
	Source Source
	// Local is the engine's reply when the local engine answered.
	Local *dialogue.Reply
	// RemoteErr is set when the remote model was tried and failed.
	RemoteErr error
}

// UsedRemote reports whether the text came from the hosted model.
func (a *Answer) UsedRemote() bool { return a.Source == SourceRemote }

// Outcome names the branch that produced the answer.
func (a *Answer) Outcome() string {
	if a.Local != nil {
		return string(a.Local.Outcome)
	}
	return string(SourceRemote)
}

// Assistant answers governance questions.
type Assistant interface {
	Answer(ctx context.Context, sessionID, question string, history []domain.ChatMessage) (*Answer, error)
}

type assistant struct {
	client       llm.Client
	engine       *dialogue.Engine
	systemPrompt string
}

// NewAssistant wires the remote client and the local engine. client may be
// nil, in which case every question is answered locally.
func NewAssistant(client llm.Client, engine *dialogue.Engine, kb *knowledge.Store) Assistant {
	return &assistant{
		client:       client,
		engine:       engine,
		systemPrompt: BuildSystemPrompt(kb),
	}
}

// Answer tries the remote model first on every call. A missing key falls
// back silently; any other remote failure falls back with a disclosure.
// The local engine always answers, so the error is always nil.
func (a *assistant) Answer(ctx context.Context, sessionID, question string, history []domain.ChatMessage) (*Answer, error) {
	remoteErr := llm.ErrRemoteUnavailable
	if a.client != nil && a.client.Configured() {
		resp, err := a.client.Complete(ctx, llm.CompleteRequest{
			SystemPrompt: a.systemPrompt,
			History:      toMessages(history),
			UserMessage:  question,
		})
		if err == nil {
			return &Answer{Text: resp.Text, Source: SourceRemote}, nil
		}
		remoteErr = err
	}

	reply := a.engine.Respond(ctx, sessionID, question, history)
	ans := &Answer{Text: reply.Text, Source: SourceLocal, Local: &reply}
	if !errors.Is(remoteErr, llm.ErrRemoteUnavailable) {
		ans.RemoteErr = remoteErr
		ans.Text = fmt.Sprintf(disclosureFormat, reply.Text)
	}
	return ans, nil
}

// toMessages converts chat history to the alternating user/assistant turns
// the Messages API accepts: leading assistant turns are dropped and
// consecutive turns by the same author are merged.
func toMessages(history []domain.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		role := llm.RoleUser
		if m.IsAssistant() {
			role = llm.RoleAssistant
		}
		if len(out) == 0 && role == llm.RoleAssistant {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content = strings.Join([]string{out[n-1].Content, m.Text}, "\n\n")
			continue
		}
		out = append(out, llm.Message{Role: role, Content: m.Text})
	}
	// An unanswered trailing question is dropped; the current question
	// becomes the final user turn.
	if n := len(out); n > 0 && out[n-1].Role == llm.RoleUser {
		out = out[:n-1]
	}
	return out
}
