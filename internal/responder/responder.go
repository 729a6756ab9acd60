// Package responder turns user text into the bot's reply: a canned identity
// answer for ownership questions, otherwise a rebranded model answer, and a
// fixed fallback when the model cannot be reached.
package responder

import (
	"context"
	"log/slog"

	"github.com/tracy-ai/tracybot/internal/llm"
)

// Classifier reports whether text is an ownership question.
type Classifier interface {
	Match(text string) bool
}

// Messages are the fixed strings the Generator answers with.
type Messages struct {
	Identity string
	Fallback string
}

// Generator produces reply text. It is safe for concurrent use.
type Generator struct {
	classifier Classifier
	completer  llm.Completer
	rebrander  *Rebrander
	model      string
	messages   Messages
	log        *slog.Logger
}

// NewGenerator wires a Generator from its collaborators.
func NewGenerator(
	classifier Classifier,
	completer llm.Completer,
	rebrander *Rebrander,
	model string,
	messages Messages,
	log *slog.Logger,
) *Generator {
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		classifier: classifier,
		completer:  completer,
		rebrander:  rebrander,
		model:      model,
		messages:   messages,
		log:        log.With("component", "responder"),
	}
}

// Reply returns the answer to text. It never fails: provider errors are
// logged and replaced by the fallback message.
func (g *Generator) Reply(ctx context.Context, text string) string {
	if g.classifier.Match(text) {
		g.log.DebugContext(ctx, "Ownership question detected, answering with identity")
		return g.messages.Identity
	}

	g.log.InfoContext(ctx, "Sending message to LLM", "model", g.model, "text_length", len(text))
	res := g.completer.Complete(ctx, g.model, text)
	if !res.OK() {
		g.log.ErrorContext(ctx, "LLM request failed, using fallback", "error", res.Err)
		return g.messages.Fallback
	}
	g.log.InfoContext(ctx, "Received response from LLM", "response_length", len(res.Text))

	return g.rebrander.Apply(res.Text)
}
