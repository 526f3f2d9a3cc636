package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"agrotrust/internal/domain/entity"
	"agrotrust/pkg/logger"
)

// Fixed texts shown when the generator is missing, silent or failing.
const (
	DescriptionNotConfigured = "Fresh produce directly from the farm."
	DescriptionFallback      = "Fresh, verified local produce."

	DisputeNotConfigured = "Case pending manual review."
	DisputeEmpty         = "Review required."
	DisputeFailed        = "Manual review required."

	DefaultDisputeIssue = "Standard quality check"
)

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type outcome int

const (
	outcomeOK outcome = iota
	outcomeNotConfigured
	outcomeEmpty
	outcomeFailed
)

// AdvisoryService wraps an optional TextGenerator. Its methods never fail:
// every problem turns into a fixed fallback text.
type AdvisoryService struct {
	gen     TextGenerator
	timeout time.Duration

	mu    sync.RWMutex
	cache map[string]string
	group singleflight.Group
}

// NewAdvisoryService accepts a nil generator, in which case every call
// returns the not-configured text.
func NewAdvisoryService(gen TextGenerator, timeout time.Duration) *AdvisoryService {
	return &AdvisoryService{
		gen:     gen,
		timeout: timeout,
		cache:   make(map[string]string),
	}
}

func (s *AdvisoryService) Configured() bool {
	return s.gen != nil
}

func (s *AdvisoryService) generate(ctx context.Context, prompt string) (string, outcome) {
	if s.gen == nil {
		return "", outcomeNotConfigured
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		logger.Warn("Text generation failed: %v", err)
		return "", outcomeFailed
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", outcomeEmpty
	}
	return text, outcomeOK
}

func descriptionPrompt(productName, farmName, state string) string {
	return fmt.Sprintf("Write a short, appetizing, 2-sentence description for %s grown by %s in %s. Focus on freshness and local quality.",
		productName, farmName, state)
}

func describeOutcome(text string, o outcome) string {
	switch o {
	case outcomeOK:
		return text
	case outcomeNotConfigured:
		return DescriptionNotConfigured
	default:
		return DescriptionFallback
	}
}

// GenerateProductDescription writes a short listing blurb.
func (s *AdvisoryService) GenerateProductDescription(ctx context.Context, productName, farmName, state string) string {
	text, o := s.generate(ctx, descriptionPrompt(productName, farmName, state))
	return describeOutcome(text, o)
}

// AnalyzeDispute returns a one-sentence recommendation for the admin. An
// empty issue is treated as a routine quality check.
func (s *AdvisoryService) AnalyzeDispute(ctx context.Context, orderID, issue string) string {
	if strings.TrimSpace(issue) == "" {
		issue = DefaultDisputeIssue
	}
	prompt := fmt.Sprintf("Act as a neutral arbitrator for an agricultural marketplace.\nOrder ID: %s.\nIssue reported: %s.\nProvide a preliminary recommendation for the admin in 1 sentence.",
		orderID, issue)

	text, o := s.generate(ctx, prompt)
	switch o {
	case outcomeOK:
		return text
	case outcomeNotConfigured:
		return DisputeNotConfigured
	case outcomeEmpty:
		return DisputeEmpty
	default:
		return DisputeFailed
	}
}

// DescribeProduct is GenerateProductDescription for a stored listing. Only
// generated texts are cached, so a fallback is retried on the next call.
// Concurrent calls for the same listing share one request.
func (s *AdvisoryService) DescribeProduct(ctx context.Context, p *entity.Product) string {
	if p.Description != "" {
		return p.Description
	}

	s.mu.RLock()
	cached, ok := s.cache[p.ID]
	s.mu.RUnlock()
	if ok {
		return cached
	}

	v, _, _ := s.group.Do(p.ID, func() (interface{}, error) {
		// The shared call outlives the cancellation of any single caller.
		text, o := s.generate(context.WithoutCancel(ctx), descriptionPrompt(p.Name, p.FarmerName, p.State))
		if o == outcomeOK {
			s.mu.Lock()
			s.cache[p.ID] = text
			s.mu.Unlock()
		}
		return describeOutcome(text, o), nil
	})
	return v.(string)
}
