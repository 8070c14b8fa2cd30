package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"summify/internal/domain"
	"summify/internal/metrics"
	"summify/internal/source"
	"summify/internal/summarizer"
	"time"
)

const modelRequestMessage = "Unable to generate summary"

type Acquirer interface {
	Acquire(ctx context.Context, rawURL string) (domain.Document, error)
}

// Pipeline runs validate, acquire and summarize one after another for a
// single submission.
type Pipeline struct {
	acquirer   Acquirer
	summarizer summarizer.Summarizer
	timeout    time.Duration
	log        *slog.Logger
}

func New(
	acquirer Acquirer,
	s summarizer.Summarizer,
	timeout time.Duration,
	log *slog.Logger,
) *Pipeline {
	return &Pipeline{
		acquirer:   acquirer,
		summarizer: s,
		timeout:    timeout,
		log:        log,
	}
}

// Run returns the session with Result filled in. It never returns an error:
// failures end up in Result.Err tagged with a *domain.Error.
func (p *Pipeline) Run(ctx context.Context, session domain.Session) domain.Session {
	start := time.Now()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	result := p.run(ctx, session)
	session.Result = &result

	outcome := metrics.OutcomeSuccess
	if result.Err != nil {
		outcome = metrics.OutcomeFailure

		p.log.WarnContext(ctx, "Failed to summarize URL",
			"error", result.Err,
			"kind", domain.KindOf(result.Err),
			"url", session.URL,
			"durationSeconds", time.Since(start).Seconds())
	} else {
		p.log.InfoContext(ctx, "URL is summarized",
			"url", session.URL,
			"sourceKind", result.Kind,
			"strategy", result.Strategy,
			"summaryLen", len(result.Summary),
			"durationSeconds", time.Since(start).Seconds())
	}
	metrics.PipelineDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return session
}

func (p *Pipeline) run(ctx context.Context, session domain.Session) domain.Result {
	if err := source.ValidateInput(session.URL, session.Credential); err != nil {
		return domain.Result{Err: err}
	}

	rawURL := strings.TrimSpace(session.URL)
	kind := source.Classify(rawURL)

	doc, err := p.acquirer.Acquire(ctx, rawURL)
	if err != nil {
		return domain.Result{Kind: kind, Err: tagAcquisitionError(err)}
	}

	p.log.DebugContext(ctx, "Content is acquired",
		"url", rawURL,
		"sourceKind", kind,
		"strategy", doc.Strategy,
		"textLen", len(doc.Text))

	summary, err := p.summarizer.Summarize(ctx, summarizer.Input{
		Text:       doc.Text,
		SourceURL:  doc.SourceURL,
		Credential: session.Credential,
	})
	if err != nil {
		metrics.SummariesTotal.WithLabelValues(p.summarizer.Provider(), metrics.OutcomeFailure).Inc()

		return domain.Result{
			Kind:     kind,
			Strategy: doc.Strategy,
			Err:      domain.NewError(domain.KindModelRequest, modelRequestMessage, fmt.Errorf("summarize: %w", err)),
		}
	}
	metrics.SummariesTotal.WithLabelValues(p.summarizer.Provider(), metrics.OutcomeSuccess).Inc()

	return domain.Result{
		Summary:  summary,
		Kind:     kind,
		Strategy: doc.Strategy,
	}
}

func tagAcquisitionError(err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	return domain.NewError(domain.KindAcquisitionFailed, "", err)
}
