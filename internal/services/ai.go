package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// TaskDrafter turns free text into task drafts.
type TaskDrafter interface {
	DraftTasks(ctx context.Context, text string) ([]TaskDraft, error)
}

type AIService struct {
	client *openai.Client
}

// TaskDraft is a task suggested from free text. Codes use the stored enum values.
type TaskDraft struct {
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	AcceptanceCriteria string     `json:"acceptance_criteria"`
	Type               string     `json:"type"`
	Priority           string     `json:"priority"`
	Deadline           *time.Time `json:"deadline"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// DraftTasks analyzes text and extracts task drafts using OpenAI GPT
func (s *AIService) DraftTasks(ctx context.Context, text string) ([]TaskDraft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().UTC().Format(time.RFC3339)
	prompt := fmt.Sprintf(`You turn meeting notes and bug reports into issue tracker tasks.

Current time: %s

Text:
%s

Reply with a JSON array of tasks in this shape:
[
  {
    "name": "short task title",
    "description": "what has to be done",
    "acceptance_criteria": "how we know it is done, may be empty",
    "type": "one of WI (work item), BUG, REQ (requirement), TT (test), KI (known issue)",
    "priority": "one of HG, MD, LW",
    "deadline": "RFC3339 timestamp such as 2025-10-28T23:59:59Z, or null when no deadline is given"
  }
]

Rules:
- Reply with [] when the text contains no tasks
- Resolve relative dates ("tomorrow", "next week") against the current time
- Reply with JSON only, without any explanation`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(content), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return drafts, nil
}
