package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// DefaultGeminiModels is the fallback order: each model is tried in turn
// when the previous one is not available for the key.
var DefaultGeminiModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-2.0-flash",
	"gemini-2.5-flash-lite",
}

// KeyRing holds the rotation state for a set of API keys. It prefers the
// key with the fewest recent failures and is safe for concurrent use.
type KeyRing struct {
	mu       sync.Mutex
	keys     []string
	failures []int
	current  int
}

func NewKeyRing(keys []string) *KeyRing {
	var clean []string
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			clean = append(clean, k)
		}
	}
	return &KeyRing{keys: clean, failures: make([]int, len(clean))}
}

func (r *KeyRing) Len() int { return len(r.keys) }

// Next returns the index and value of the key to try next.
func (r *KeyRing) Next() (int, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.keys) == 0 {
		return 0, "", ErrNoKeys
	}
	best := r.current
	for i, n := range r.failures {
		if n < r.failures[best] {
			best = i
		}
	}
	r.current = best
	return best, r.keys[best], nil
}

// Fail records a failure for key i and moves past it.
func (r *KeyRing) Fail(i int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[i]++
	r.current = (i + 1) % len(r.keys)
}

// Succeed clears the failure count for key i.
func (r *KeyRing) Succeed(i int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[i] = 0
}

// modelCaller runs one generation against one model with one key.
type modelCaller func(ctx context.Context, key, model, prompt string) (string, error)

// GeminiClient generates through the Gemini API, rotating keys on rate
// limits and falling back across models the key cannot reach.
type GeminiClient struct {
	ring   *KeyRing
	models []string
	call   modelCaller
	log    *slog.Logger

	mu      sync.Mutex
	clients map[string]*genai.Client
}

func NewGeminiClient(ring *KeyRing, models []string, log *slog.Logger) *GeminiClient {
	if len(models) == 0 {
		models = DefaultGeminiModels
	}
	if log == nil {
		log = slog.Default()
	}
	g := &GeminiClient{
		ring:    ring,
		models:  models,
		log:     log,
		clients: make(map[string]*genai.Client),
	}
	g.call = g.generateContent
	return g
}

func (g *GeminiClient) Name() string { return "gemini" }

// Generate tries each key up to twice. A model that is missing for a key is
// skipped; a rate limit or other failure moves on to the next key.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	attempts := g.ring.Len() * 2
	if attempts == 0 {
		return "", ErrNoKeys
	}

	var lastErr error
	rateLimited := false
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		idx, key, err := g.ring.Next()
		if err != nil {
			return "", err
		}

		text, err := g.tryModels(ctx, key, prompt)
		if err == nil {
			g.ring.Succeed(idx)
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
		if isRateLimit(err) {
			rateLimited = true
			g.log.Warn("gemini key rate limited, rotating", "key_index", idx+1, "keys", g.ring.Len())
		} else {
			g.log.Warn("gemini key failed", "key_index", idx+1, "error", err)
		}
		g.ring.Fail(idx)
	}

	if rateLimited {
		return "", &RetryableError{StatusCode: http.StatusTooManyRequests, Message: "all gemini keys are rate limited"}
	}
	return "", fmt.Errorf("gemini: all keys failed: %w", lastErr)
}

func (g *GeminiClient) tryModels(ctx context.Context, key, prompt string) (string, error) {
	var lastErr error
	for _, model := range g.models {
		text, err := g.call(ctx, key, model, prompt)
		if err == nil {
			return text, nil
		}
		if isNotFound(err) {
			lastErr = err
			continue
		}
		return "", err
	}
	return "", fmt.Errorf("no gemini model available: %w", lastErr)
}

func (g *GeminiClient) client(ctx context.Context, key string) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.clients[key]; ok {
		return c, nil
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	g.clients[key] = c
	return c, nil
}

func (g *GeminiClient) generateContent(ctx context.Context, key, model, prompt string) (string, error) {
	c, err := g.client(ctx, key)
	if err != nil {
		return "", err
	}
	resp, err := c.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from %s", model)
	}
	return text, nil
}

func apiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code
	}
	var re *RetryableError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

func isNotFound(err error) bool {
	if apiStatus(err) == http.StatusNotFound {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "404") || strings.Contains(msg, "not found")
}

func isRateLimit(err error) bool {
	if apiStatus(err) == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "resource_exhausted")
}
