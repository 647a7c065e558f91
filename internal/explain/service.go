// Package explain produces natural-language commentary on forecasts and
// simulations. It never fails: errors and empty answers degrade to fixed text.
package explain

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ksr-21/smartstock/internal/cache"
	"github.com/ksr-21/smartstock/internal/domain"
)

// Fallback texts returned when the generator is unavailable or silent.
const (
	ForecastEmptyFallback   = "Unable to generate explanation."
	ForecastErrorFallback   = "Error fetching AI insights."
	SimulationEmptyFallback = "Prepare for supply chain volatility."
	SimulationErrorFallback = "Scenario suggests cautious inventory buffers."
	ChatEmptyFallback       = "I'm having trouble analyzing this scenario. Could you try rephrasing?"
	ChatErrorFallback       = "I'm temporarily disconnected from the AI core. Please check your connectivity and API key."
)

// ChatContext is the inventory state a chat answer may draw on.
type ChatContext struct {
	Scenario  string
	Products  []domain.Product
	Forecasts []domain.ForecastResult
}

type Service struct {
	generator Generator
	breaker   *Breaker
	cache     cache.ExplanationCache
}

// NewService wires a generator behind a breaker and cache. A nil cache
// disables caching.
func NewService(generator Generator, breaker *Breaker, explanations cache.ExplanationCache) *Service {
	if breaker == nil {
		breaker = NewBreaker(DefaultBreakerConfig())
	}
	if explanations == nil {
		explanations = cache.NewNoopExplanationCache()
	}
	return &Service{
		generator: generator,
		breaker:   breaker,
		cache:     explanations,
	}
}

// ExplainForecast returns a short rationale for one product's forecast.
func (s *Service) ExplainForecast(ctx context.Context, p domain.Product, f domain.ForecastResult) string {
	return s.answer(ctx, "forecast", "", ForecastPrompt(p, f), ForecastEmptyFallback, ForecastErrorFallback)
}

// SimulationInsight returns a strategic recommendation for a scenario.
func (s *Service) SimulationInsight(ctx context.Context, scenario string, a domain.ScenarioAssessment) string {
	return s.answer(ctx, "simulation", "", SimulationPrompt(scenario, a), SimulationEmptyFallback, SimulationErrorFallback)
}

// Chat answers a free-form question about the current inventory.
func (s *Service) Chat(ctx context.Context, message string, c ChatContext) string {
	system := ChatSystemPrompt(c.Scenario, c.Products, c.Forecasts)
	return s.answer(ctx, "chat", system, message, ChatEmptyFallback, ChatErrorFallback)
}

func (s *Service) answer(ctx context.Context, kind, system, prompt, emptyFallback, errorFallback string) string {
	if text, ok, err := s.cache.Get(ctx, system, prompt); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("explanation cache read failed")
	} else if ok {
		return text
	}

	var text string
	err := s.breaker.Execute(func() error {
		var genErr error
		text, genErr = s.generator.Generate(ctx, system, prompt)
		return genErr
	})
	if err != nil {
		if errors.Is(err, ErrDisabled) {
			log.Debug().Str("kind", kind).Msg("explanation service disabled, using fallback")
		} else {
			log.Warn().Err(err).Str("kind", kind).Msg("explanation generation failed, using fallback")
		}
		return errorFallback
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return emptyFallback
	}

	if err := s.cache.Set(ctx, system, prompt, text); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("explanation cache write failed")
	}
	return text
}
