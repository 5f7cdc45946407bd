package aigen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mind-engage/quizmaster/internal/lesson"
)

// UserMessage is the single message shown to a teacher when generation fails.
const UserMessage = "Αποτυχία δημιουργίας κουίζ. Ελέγξτε το περιεχόμενο."

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultModel   = "gemini-2.0-flash"
	MaxQuestions   = 20
)

var (
	ErrDisabled   = errors.New("ai generation disabled: no api key")
	ErrNoContent  = errors.New("no content to generate questions from")
	ErrGeneration = errors.New("quiz generation failed")
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration // 0 means no client timeout
}

type Request struct {
	Content string
	Count   int
	Types   []lesson.QuestionType
}

// Generator turns lesson text into quiz questions with one generateContent
// call. There are no retries; callers decide whether to try again.
type Generator struct {
	cfg    Config
	client *http.Client
	schema *jsonschema.Schema
	newID  func() string
}

func New(cfg Config) (*Generator, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compile questions schema: %w", err)
	}
	return &Generator{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		schema: schema,
		newID:  uuid.NewString,
	}, nil
}

// Enabled reports whether an API key is configured.
func (g *Generator) Enabled() bool { return g.cfg.APIKey != "" }

func (g *Generator) endpoint() string {
	return strings.TrimSuffix(g.cfg.BaseURL, "/") + "/" + g.cfg.Model + ":generateContent"
}

func normalizeRequest(req Request) (Request, error) {
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return req, ErrNoContent
	}
	if req.Count < 1 {
		req.Count = 1
	}
	if req.Count > MaxQuestions {
		req.Count = MaxQuestions
	}
	valid := make([]lesson.QuestionType, 0, len(req.Types))
	for _, t := range req.Types {
		if t.Valid() {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		valid = append(valid, lesson.AllQuestionTypes...)
	}
	req.Types = valid
	return req, nil
}

// Generate returns validated questions with unique ids. Any transport or
// schema failure is reported as ErrGeneration.
func (g *Generator) Generate(ctx context.Context, req Request) ([]lesson.Question, error) {
	if !g.Enabled() {
		return nil, ErrDisabled
	}
	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}
	text, err := g.call(ctx, buildPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	qs, err := g.parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return qs, nil
}

func (g *Generator) call(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
			"responseSchema":   responseSchema(),
		},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.cfg.APIKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode/100 != 2 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, snippet)
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}
	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", errors.New("empty response from Gemini")
}

// parse validates the model output and decodes it through lesson.AnswerKey,
// so both correctAnswer shapes come out as lists.
func (g *Generator) parse(text string) ([]lesson.Question, error) {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if err := g.schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("validate response: %w", err)
	}
	var qs []lesson.Question
	if err := json.Unmarshal([]byte(text), &qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	seen := map[string]bool{}
	for i := range qs {
		q := &qs[i]
		if q.ID == "" || seen[q.ID] {
			q.ID = g.newID()
		}
		seen[q.ID] = true
		if len(q.Options) == 0 {
			q.Options = nil
		}
	}
	return qs, nil
}
