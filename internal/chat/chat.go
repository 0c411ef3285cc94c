// Package chat implements the conversational flow for answering questions
// about a page: resolve the session, retrieve context for the question,
// compose the prompt from context and transcript, generate, and record the
// exchange.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/pagechat/pagechat/internal/session"
)

const (
	// TopK is the number of page chunks retrieved per question.
	TopK = 6

	// MaxHistory caps a session's history length after each exchange.
	MaxHistory = 20
)

// noHistoryPlaceholder stands in for an empty transcript.
const noHistoryPlaceholder = "No previous conversation history."

// answerPrompt drives answer generation. The slots are the retrieved page
// context, the formatted conversation transcript, and the user's question.
const answerPrompt = `You are a helpful AI assistant that answers questions about web pages. You maintain context across conversations and have access to both the current page content and the complete conversation history.

=== CURRENT PAGE CONTENT ===
%s

=== CONVERSATION HISTORY ===
%s

=== INSTRUCTIONS ===
1. **Primary Source**: Use the current page content to answer questions about the webpage
2. **Memory**: Reference the actual conversation history above when users ask about previous topics or continue discussions
3. **No Hallucination**: If asked about previous conversations, only use the exact history provided - never make up past interactions
4. **Contextual Awareness**: Build upon previous exchanges to provide coherent, continuous conversations
5. **Clarity**: If information isn't available in either the page content or conversation history, clearly state this
6. **Conversational**: Be natural and engaging while maintaining accuracy
7. **Formatting Rule**:
   - Always answer in **a single well-structured paragraph** unless the user explicitly asks for a list, steps, or ordered explanation.
   - Do **not** use bullet points, headings, or markdown formatting by default.
   - Keep sentences clear and concise, ensuring smooth transitions between ideas.

=== CURRENT QUESTION ===
%s

=== RESPONSE ===
Provide a concise, accurate answer based on the above information. If you can't find the answer, say "You don't have enough information to answer that." rather than guessing.
`

// Service answers questions about pages, one exchange at a time.
type Service struct {
	g         *genkit.Genkit
	store     *session.Store
	modelName string
	genConfig any
	logger    *slog.Logger
}

// New creates a chat service. modelName is the provider-qualified model
// used for every generation; genConfig, when non-nil, is passed through to
// the provider (the app wires a deterministic temperature-zero config).
// A nil logger falls back to slog.Default().
func New(g *genkit.Genkit, store *session.Store, modelName string, genConfig any, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		g:         g,
		store:     store,
		modelName: modelName,
		genConfig: genConfig,
		logger:    logger.With("component", "chat"),
	}
}

// Answer runs one conversational exchange about url and returns the
// generated answer.
//
// The user's question is recorded in history before generation and is not
// rolled back on generation failure, so a retry carries the failed attempt
// in its transcript. Ingestion failures surface as the session package's
// sentinel errors; generation and retrieval failures are returned wrapped
// and unrecovered.
func (s *Service) Answer(ctx context.Context, url, query string) (string, error) {
	var answer string
	err := s.store.WithSession(ctx, url, func(sess *session.Session) error {
		sess.AppendHuman(query)

		chunks, err := sess.Search(ctx, query, TopK)
		if err != nil {
			return fmt.Errorf("retrieve context: %w", err)
		}
		pageContext := strings.Join(chunks, "\n")

		// The transcript covers everything before the question just
		// recorded, so the model sees the question once, in its own slot.
		history := sess.History()
		transcript := FormatTranscript(history[:len(history)-1])

		opts := []ai.GenerateOption{
			ai.WithModelName(s.modelName),
			ai.WithPrompt(answerPrompt, pageContext, transcript, query),
		}
		if s.genConfig != nil {
			opts = append(opts, ai.WithConfig(s.genConfig))
		}

		resp, err := genkit.Generate(ctx, s.g, opts...)
		if err != nil {
			return fmt.Errorf("generate answer: %w", err)
		}

		answer = resp.Text()
		sess.AppendAI(answer)
		sess.Truncate(MaxHistory)

		s.logger.Debug("answered question",
			"url", url,
			"history_len", len(sess.History()),
			"context_chunks", len(chunks))
		return nil
	})
	if err != nil {
		return "", err
	}
	return answer, nil
}

// FormatTranscript renders messages as one "<label>: <content>" line per
// message, oldest first. An empty history renders as a fixed placeholder.
func FormatTranscript(history []session.Message) string {
	if len(history) == 0 {
		return noHistoryPlaceholder
	}
	lines := make([]string, len(history))
	for i, msg := range history {
		lines[i] = msg.Role.Label() + ": " + msg.Content
	}
	return strings.Join(lines, "\n")
}
