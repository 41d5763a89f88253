package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/JaimeStill/nourish/internal/prompts"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces the next assistant message for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Client is an OpenAI-compatible chat completion client.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewClient creates a completion client for cfg. It requires an API key.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingKey
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL

	return &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Complete sends messages to the chat model and returns the trimmed reply.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, len(messages)),
		Temperature: c.temperature,
	}
	for i, m := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletion, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrCompletion)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// NormalizeHistory maps every role other than user to assistant and drops
// turns without content. A blank role counts as user.
func NormalizeHistory(history []Message) []Message {
	out := make([]Message, 0, len(history))
	for _, m := range history {
		if m.Content == "" {
			continue
		}
		role := RoleAssistant
		if r := strings.TrimSpace(m.Role); r == "" || strings.EqualFold(r, RoleUser) {
			role = RoleUser
		}
		out = append(out, Message{Role: role, Content: m.Content})
	}
	return out
}

// Engine answers questions with condense-plus-context retrieval.
type Engine struct {
	completer Completer
	retriever Retriever
	topK      int
}

// NewEngine creates an Engine retrieving topK chunks per question.
func NewEngine(completer Completer, retriever Retriever, topK int) *Engine {
	return &Engine{completer: completer, retriever: retriever, topK: topK}
}

// Chat answers message given the prior conversation. With history, the
// message is first condensed into a standalone question for retrieval.
func (e *Engine) Chat(ctx context.Context, message string, history []Message) (string, error) {
	history = NormalizeHistory(history)

	question := message
	if len(history) > 0 {
		condensed, err := e.completer.Complete(ctx, []Message{
			{Role: RoleUser, Content: prompts.Condense(renderHistory(history), message)},
		})
		if err != nil {
			return "", err
		}
		if condensed != "" {
			question = condensed
		}
	}

	chunks, err := e.retriever.Retrieve(ctx, question, e.topK)
	if err != nil {
		return "", err
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{
		Role:    RoleSystem,
		Content: prompts.Answer(strings.Join(chunks, "\n\n")),
	})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: message})

	return e.completer.Complete(ctx, messages)
}

func renderHistory(history []Message) string {
	var b strings.Builder
	for i, m := range history {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", m.Role, m.Content)
	}
	return b.String()
}
