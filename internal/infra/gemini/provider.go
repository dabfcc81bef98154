package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"google.golang.org/genai"

	"trivia-duel/internal/domain"
)

// DefaultModel balances speed and quality for short structured generations.
const DefaultModel = "gemini-2.5-flash"

// maxAvoidList caps how many previously seen questions are echoed back into
// the prompt.
const maxAvoidList = 40

const systemInstruction = "You are a trivia master game show host. Generate fun, accurate, and concise trivia questions."

// SeenStore tracks recently served question texts per topic (in-memory or
// Redis) so repeated matches on the same topic stay fresh.
type SeenStore interface {
	Recent(ctx context.Context, topic string) ([]string, error)
	Record(ctx context.Context, topic string, texts []string) error
}

// Provider generates trivia questions with the Gemini API. A response JSON
// schema keeps the model output structured; everything is still strictly
// validated before it reaches a match.
type Provider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	seen    SeenStore
	sf      singleflight.Group
	now     func() time.Time
}

// New builds a Provider. Model and timeout fall back to sensible defaults;
// seen may be nil to disable repeat avoidance.
func New(ctx context.Context, apiKey, model string, timeout time.Duration, seen SeenStore) (*Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Provider{
		client:  client,
		model:   model,
		timeout: timeout,
		seen:    seen,
		now:     time.Now,
	}, nil
}

// questionSchema constrains the model to a JSON array of question records.
var questionSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"text": {
				Type:        genai.TypeString,
				Description: "The trivia question text.",
			},
			"options": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "An array of 4 possible answers.",
			},
			"correctAnswerIndex": {
				Type:        genai.TypeInteger,
				Description: "The zero-based index of the correct answer in the options array.",
			},
			"explanation": {
				Type:        genai.TypeString,
				Description: "A short, interesting fact explaining the answer.",
			},
		},
		Required: []string{"text", "options", "correctAnswerIndex", "explanation"},
	},
}

// Generate requests count questions about topic. Concurrent identical
// requests are collapsed into a single API call.
func (p *Provider) Generate(ctx context.Context, topic string, count int) ([]domain.Question, error) {
	key := fmt.Sprintf("%s|%d", strings.ToLower(strings.TrimSpace(topic)), count)
	result, err, _ := p.sf.Do(key, func() (interface{}, error) {
		return p.generate(ctx, topic, count)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (p *Provider) generate(ctx context.Context, topic string, count int) ([]domain.Question, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var avoid []string
	if p.seen != nil {
		recent, err := p.seen.Recent(ctx, topic)
		if err != nil {
			log.Printf("gemini: seen-store lookup failed for %q: %v", topic, err)
		} else {
			avoid = recent
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		genai.Text(buildPrompt(topic, count, avoid)),
		&genai.GenerateContentConfig{
			ResponseMIMEType:  "application/json",
			ResponseSchema:    questionSchema,
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	questions, err := decodeBatch([]byte(resp.Text()), count, p.now())
	if err != nil {
		return nil, err
	}

	if p.seen != nil {
		texts := make([]string, 0, len(questions))
		for _, q := range questions {
			texts = append(texts, q.Text)
		}
		if err := p.seen.Record(ctx, topic, texts); err != nil {
			log.Printf("gemini: seen-store record failed for %q: %v", topic, err)
		}
	}
	return questions, nil
}

// buildPrompt mirrors the generation request the product was designed around,
// plus an avoid list so restarts get fresh questions.
func buildPrompt(topic string, count int, avoid []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d engaging and challenging trivia questions about %q.\n", count, topic)
	b.WriteString("Ensure the questions are diverse in difficulty but fair.\n")
	b.WriteString("There must be exactly 4 options per question.\n")
	b.WriteString("The output must be a JSON array.")
	if len(avoid) > maxAvoidList {
		avoid = avoid[len(avoid)-maxAvoidList:]
	}
	if len(avoid) > 0 {
		b.WriteString("\nDo not repeat any of these previously asked questions:\n")
		for _, text := range avoid {
			b.WriteString("- ")
			b.WriteString(text)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// decodeBatch parses the model's JSON into validated questions, assigning IDs
// unique within the match.
func decodeBatch(raw []byte, count int, now time.Time) ([]domain.Question, error) {
	var records []struct {
		Text               string   `json:"text"`
		Options            []string `json:"options"`
		CorrectAnswerIndex int      `json:"correctAnswerIndex"`
		Explanation        string   `json:"explanation"`
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", domain.ErrGenerationFailed, err)
	}

	questions := make([]domain.Question, 0, len(records))
	for i, rec := range records {
		questions = append(questions, domain.Question{
			ID:           fmt.Sprintf("q-%d-%d", now.UnixMilli(), i),
			Text:         rec.Text,
			Options:      rec.Options,
			CorrectIndex: rec.CorrectAnswerIndex,
			Explanation:  rec.Explanation,
		})
	}
	if err := domain.ValidateBatch(questions, count); err != nil {
		return nil, err
	}
	return questions, nil
}
