package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Profile is a generated competency profile.
type Profile struct {
	Text        string    `json:"text"`
	Provider    string    `json:"provider"`
	Cached      bool      `json:"cached"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Service builds prompts, consults the cache and calls the generator.
// Concurrent requests for the same prompt share one provider call.
type Service struct {
	gen   Generator
	cache *Cache
	stats *Stats
	log   *slog.Logger
	group singleflight.Group
}

func NewService(gen Generator, cache *Cache, stats *Stats, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if stats == nil {
		stats = NewStats(time.Hour)
	}
	return &Service{gen: gen, cache: cache, stats: stats, log: log}
}

func (s *Service) Stats() *Stats { return s.stats }

func (s *Service) Provider() string { return s.gen.Name() }

// Generate renders the prompt for req and returns the profile text.
func (s *Service) Generate(ctx context.Context, req Request) (*Profile, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}
	key := CacheKey(prompt, req.SubjectName)

	if s.cache != nil {
		if text, ok := s.cache.Get(key); ok {
			s.stats.Record(s.gen.Name(), OutcomeCached, 0)
			s.log.Info("profile cache hit", "subject", req.SubjectName, "provider", s.gen.Name())
			return &Profile{Text: text, Provider: s.gen.Name(), Cached: true, GeneratedAt: time.Now().UTC()}, nil
		}
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		start := time.Now()
		text, err := s.gen.Generate(ctx, prompt)
		elapsed := time.Since(start).Milliseconds()
		if err != nil {
			s.stats.Record(s.gen.Name(), OutcomeError, elapsed)
			return "", err
		}
		s.stats.Record(s.gen.Name(), OutcomeOK, elapsed)
		s.log.Info("profile generated",
			"subject", req.SubjectName,
			"provider", s.gen.Name(),
			"prompt_chars", len(prompt),
			"profile_chars", len(text),
			"duration_ms", elapsed,
		)
		if s.cache != nil {
			s.cache.Put(key, text)
		}
		return text, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s generate: %w", s.gen.Name(), err)
	}
	if shared {
		s.log.Debug("profile generation shared", "subject", req.SubjectName)
	}
	return &Profile{Text: v.(string), Provider: s.gen.Name(), GeneratedAt: time.Now().UTC()}, nil
}
