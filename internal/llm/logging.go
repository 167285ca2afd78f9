package llm

import (
	"context"
	"time"

	"github.com/abhisek/examprep/internal/platform/logger"
	"github.com/abhisek/examprep/internal/store"
)

// UsageRecorder persists one row per provider call.
type UsageRecorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// LoggingProvider records every call, successful or not, to the store and
// the structured log. A failed write is logged and otherwise ignored.
type LoggingProvider struct {
	inner    Provider
	recorder UsageRecorder
	log      *logger.Logger
}

func WithLogging(p Provider, recorder UsageRecorder, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, recorder: recorder, log: log}
}

func (l *LoggingProvider) Name() string    { return l.inner.Name() }
func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  l.inner.Name(),
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	kv := []interface{}{
		"provider", data.Provider,
		"model", data.Model,
		"purpose", data.Purpose,
		"latency_ms", data.LatencyMs,
		"input_tokens", data.InputTokens,
		"output_tokens", data.OutputTokens,
	}
	if err != nil {
		l.log.Warn("llm request failed", append(kv, "error", err)...)
	} else {
		l.log.Debug("llm request", kv...)
	}

	if l.recorder != nil {
		// Recording uses its own context so a cancelled call is still counted.
		recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if recErr := l.recorder.AppendLLMRequest(recCtx, data); recErr != nil {
			l.log.Warn("failed to record llm request", "error", recErr)
		}
	}
	return resp, err
}
