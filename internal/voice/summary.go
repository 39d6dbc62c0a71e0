package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Summary is the structured result of the summarization step.
type Summary struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	KeyTopics []string `json:"key_topics"`
	Emotions  []string `json:"emotions"`
	Insights  string   `json:"insights"`
	NextSteps string   `json:"next_steps"`
}

// Transcriber converts an audio file into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
}

// Summarizer derives a structured Summary from a transcript. It never fails:
// when the model cannot be reached or returns something unparseable, the
// degraded fallback summary is returned instead.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) Summary
}

const fallbackTitle = "Терапевтическая сессия"

const summaryPrompt = `Проанализируй следующую терапевтическую сессию и создай структурированное резюме в формате JSON:

Транскрипт: "%s"

Создай JSON с полями:
{
  "title": "Краткий заголовок сессии (1-2 слова)",
  "summary": "Краткое резюме основных моментов (2-3 предложения)",
  "key_topics": ["список", "основных", "тем"],
  "emotions": ["эмоции", "которые", "проявлялись"],
  "insights": "Важные инсайты или выводы",
  "next_steps": "Рекомендации для следующих шагов"
}

Отвечай только JSON без дополнительного текста.`

const summarySystemPrompt = "Ты помощник психолога, который анализирует терапевтические сессии и создает структурированные резюме."

// FallbackSummary builds the degraded summary used when summarization fails:
// a generic title and the first 200 characters of the transcript.
func FallbackSummary(transcript string) Summary {
	summary := transcript
	if runes := []rune(transcript); len(runes) > 200 {
		summary = string(runes[:200]) + "..."
	}
	return Summary{
		Title:     fallbackTitle,
		Summary:   summary,
		KeyTopics: []string{},
		Emotions:  []string{},
	}
}

// OpenAI implements Transcriber and Summarizer against the OpenAI API.
type OpenAI struct {
	client *openai.Client
}

// NewOpenAI creates an OpenAI-backed transcriber/summarizer.
func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{client: openai.NewClient(apiKey)}
}

// Transcribe runs Whisper over the audio file at filePath.
func (o *OpenAI) Transcribe(ctx context.Context, filePath string) (string, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filePath,
	})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}
	return resp.Text, nil
}

// Summarize asks the chat model for a structured summary of the transcript,
// falling back to FallbackSummary on any failure.
func (o *OpenAI) Summarize(ctx context.Context, transcript string) Summary {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: summarySystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(summaryPrompt, transcript),
			},
		},
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil || len(resp.Choices) == 0 {
		return FallbackSummary(transcript)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	var summary Summary
	if err := json.Unmarshal([]byte(content), &summary); err != nil {
		return FallbackSummary(transcript)
	}
	if summary.Title == "" {
		summary.Title = fallbackTitle
	}
	if summary.KeyTopics == nil {
		summary.KeyTopics = []string{}
	}
	if summary.Emotions == nil {
		summary.Emotions = []string{}
	}
	return summary
}
