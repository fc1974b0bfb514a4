package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"sata-backend/internal/models"
)

// GeminiService is the question source: it asks Gemini for a batch of SAT
// practice questions and hands back either a fully validated batch of
// exactly the requested size or an error. Partial batches never escape.
type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{} // token bucket
}

func NewGeminiService(apiKey string, concurrentReqs int) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-3-flash-preview")
	model.SetTemperature(0.3)
	model.SetTopP(0.95)
	model.ResponseMIMEType = "application/json"

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// Fetch requests exactly count questions for a subject/difficulty. Any
// deviation from the contract (API error, malformed JSON, wrong batch size,
// schema violation) is an error; the caller decides about retries.
func (s *GeminiService) Fetch(ctx context.Context, subject models.Subject, difficulty models.Difficulty, count int) ([]models.Question, error) {
	if count < 1 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	if err := s.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer s.releaseRate()

	prompt := buildQuestionPrompt(subject, difficulty, count)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	rawText := extractText(resp)
	return ParseQuestionBatch(rawText, count)
}

// ParseQuestionBatch decodes and validates a generated batch. Exposed
// separately from the network call so the contract is testable offline.
func ParseQuestionBatch(rawText string, count int) ([]models.Question, error) {
	rawText = strings.TrimPrefix(rawText, "```json")
	rawText = strings.TrimPrefix(rawText, "```")
	rawText = strings.TrimSuffix(rawText, "```")
	rawText = strings.TrimSpace(rawText)

	var questions []models.Question
	if err := json.Unmarshal([]byte(rawText), &questions); err != nil {
		// Try to extract the JSON array from surrounding prose.
		start := strings.Index(rawText, "[")
		end := strings.LastIndex(rawText, "]")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("malformed generation response: %w", err)
		}
		if err := json.Unmarshal([]byte(rawText[start:end+1]), &questions); err != nil {
			return nil, fmt.Errorf("malformed generation response: %w", err)
		}
	}

	if len(questions) != count {
		return nil, fmt.Errorf("expected %d questions, got %d", count, len(questions))
	}
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
	}
	return questions, nil
}

func buildQuestionPrompt(subject models.Subject, difficulty models.Difficulty, count int) string {
	var b strings.Builder

	b.WriteString("You are an expert SAT question writer. Generate unique, premium SAT practice questions.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON array. No preamble, no markdown, no backticks.\n\n")

	b.WriteString(fmt.Sprintf("Generate exactly %d questions.\n", count))

	diff := strings.ToUpper(string(difficulty))
	switch subject {
	case models.SubjectMath:
		b.WriteString(fmt.Sprintf("Subject: SAT MATH (%s). ", diff))
		if difficulty == models.DifficultyHard {
			b.WriteString("Advanced functions and geometry.\n")
		} else {
			b.WriteString("Linear algebra and basic stats.\n")
		}
	case models.SubjectEnglish:
		b.WriteString(fmt.Sprintf("Subject: SAT ENGLISH (%s). ", diff))
		if difficulty == models.DifficultyHard {
			b.WriteString("Logical inference and complex structure.\n")
		} else {
			b.WriteString("Grammar and vocabulary.\n")
		}
	}

	b.WriteString(`
JSON schema per question:
{"q": "string", "a": ["string", "string", "string", "string"], "correct": int 0-3, "topic": "string", "explanation": "string"}

Exactly 4 answer options per question. "correct" is the zero-based index of the right option.
`)

	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
