package services

import (
	"context"
	"fmt"

	"devflow/internal/action"
	"devflow/internal/utils"
)

const aiSystemPrompt = `You are a helpful assistant that provides informative responses in markdown format. Use appropriate markdown syntax for headings, lists, code blocks, and emphasis where necessary.
For code blocks, use short-form smaller case language identifiers (e.g., 'js' for JavaScript, 'py' for Python, 'ts' for TypeScript, 'html' for HTML, 'css' for CSS, etc.).`

type AIAnswer struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

type AIService struct {
	llm *LLMService
}

func NewAIService(llm *LLMService) *AIService {
	return &AIService{llm: llm}
}

// GenerateAnswer drafts an answer to a question, improving on the user's own attempt
// when one is given.
func (s *AIService) GenerateAnswer(ctx context.Context, p AIAnswerParams) action.Response[AIAnswer] {
	params, err := validate(ctx, p, AIAnswerSchema)
	if err != nil {
		return action.Fail[AIAnswer](err)
	}

	text, err := s.llm.Complete(ctx, aiSystemPrompt, answerPrompt(params))
	if err != nil {
		return action.Fail[AIAnswer](err)
	}
	return action.OK(AIAnswer{Markdown: text, HTML: utils.RenderMarkdown(text)})
}

func answerPrompt(p AIAnswerParams) string {
	prompt := fmt.Sprintf(`Generate a markdown-formatted response to the following question: %q.

Consider the provided context:
**Context:** %s
`, p.Question, p.Content)

	if p.UserAnswer != "" {
		prompt += fmt.Sprintf(`
Also, prioritize and incorporate the user's answer when formulating your response:
**User's Answer:** %s

Prioritize the user's answer only if it's correct. If it's incomplete or incorrect, improve or correct it while keeping the response concise and to the point.
`, p.UserAnswer)
	}
	return prompt + "Provide the final answer in markdown format."
}
