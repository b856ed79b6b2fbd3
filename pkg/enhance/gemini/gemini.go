// Package gemini backs the enhancement service with the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/kangen/kangen/pkg/enhance"
)

// DefaultModel fits a full study sheet of kanji in one request.
const DefaultModel = "gemini-2.5-flash"

// Client implements enhance.Service against the Gemini API.
type Client struct {
	APIKey string
	Model  string
}

// New builds a client. An empty model selects DefaultModel.
func New(apiKey, model string) *Client {
	c := &Client{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	return c
}

// Name identifies the service in logs.
func (c *Client) Name() string { return "gemini" }

const enhanceRules = `You are a Japanese linguistics expert creating Anki flashcards.

For EACH kanji below, produce flashcard data.

MANDATORY RULES:
- Use ONLY the readings provided. Do NOT invent readings.
- On-yomi MUST be written in Katakana only.
- Kun-yomi MUST be written in Hiragana only.
- If a reading field has no value, output an empty string "". NEVER output the word "none", "null", or "n/a".
- Do NOT mix on-yomi into the kun-yomi field or vice versa.
- Meaning must be a concise English definition.
- Example must be a natural Japanese sentence using the kanji.

OUTPUT FORMAT is a strict JSON array, no markdown, no preamble:
[
  {
    "kanji": "漢字",
    "meaning": "English meaning",
    "on_yomi": "カタカナ",
    "kun_yomi": "ひらがな",
    "example": "日本語の例文"
  }
]`

// EnhanceBatch sends the whole batch in one prompt and parses the JSON
// array the model returns. Rate limits come back as *enhance.RateLimitError.
func (c *Client) EnhanceBatch(ctx context.Context, reqs []enhance.Request) (map[string]enhance.Fields, error) {
	if c.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(c.APIKey))
	if err != nil {
		return nil, err
	}
	defer cl.Close()

	m := cl.GenerativeModel(c.Model)
	if m == nil {
		return nil, fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(enhanceRules)},
	}

	resp, err := m.GenerateContent(ctx, genai.Text("KANJI LIST:\n"+buildKanjiList(reqs)))
	if err != nil {
		return nil, classifyErr(err)
	}

	txt := firstText(resp)
	if txt == "" {
		return nil, fmt.Errorf("gemini enhance: empty response")
	}
	return parseNotes(stripCodeFences(txt))
}

// buildKanjiList renders the per-kanji prompt blocks. Empty candidate
// lists show up as an explicit "(none)" marker so the model never guesses.
func buildKanjiList(reqs []enhance.Request) string {
	var b strings.Builder
	for i, r := range reqs {
		on := strings.Join(r.On, ", ")
		if on == "" {
			on = "(none)"
		}
		kun := strings.Join(r.Kun, ", ")
		if kun == "" {
			kun = "(none)"
		}
		fmt.Fprintf(&b, "%d.\nKanji: %s\nOn-yomi (Katakana): %s\nKun-yomi (Hiragana): %s\n",
			i+1, r.Kanji, on, kun)
	}
	return b.String()
}

// noteJSON mirrors one element of the JSON array the model is told to emit.
type noteJSON struct {
	Kanji   string `json:"kanji"`
	Meaning string `json:"meaning"`
	OnYomi  string `json:"on_yomi"`
	KunYomi string `json:"kun_yomi"`
	Example string `json:"example"`
}

func parseNotes(txt string) (map[string]enhance.Fields, error) {
	var notes []noteJSON
	if err := json.Unmarshal([]byte(txt), &notes); err != nil {
		return nil, fmt.Errorf("gemini enhance: bad JSON: %w", err)
	}
	results := make(map[string]enhance.Fields, len(notes))
	for _, n := range notes {
		if n.Kanji == "" {
			continue
		}
		results[n.Kanji] = enhance.Fields{
			Meaning: n.Meaning,
			OnYomi:  n.OnYomi,
			KunYomi: n.KunYomi,
			Example: n.Example,
		}
	}
	return results, nil
}

// --------------------------- helpers ---------------------------

var retryDelayRe = regexp.MustCompile(`retryDelay.*?(\d+)s`)

// classifyErr wraps quota failures in *enhance.RateLimitError so the
// orchestrator can apply its wait-and-retry policy; everything else
// passes through untouched.
func classifyErr(err error) error {
	rateLimited := false
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == 429 {
		rateLimited = true
	}
	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED") {
		rateLimited = true
	}
	if !rateLimited {
		return err
	}
	return &enhance.RateLimitError{RetryAfter: parseRetryDelay(msg), Err: err}
}

// parseRetryDelay extracts the server-suggested delay from a 429 message,
// defaulting to 60s when none is present.
func parseRetryDelay(msg string) time.Duration {
	m := retryDelayRe.FindStringSubmatch(msg)
	if m == nil {
		return 60 * time.Second
	}
	secs, err := strconv.Atoi(m[1])
	if err != nil {
		return 60 * time.Second
	}
	return time.Duration(secs) * time.Second
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func ptrFloat32(v float32) *float32 { return &v }
