package content

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"summify/internal/domain"
	"summify/internal/metrics"
	"summify/internal/source"
)

const (
	invalidYouTubeURLMessage   = "Invalid YouTube URL"
	youTubeUnavailableMessage  = "Unable to fetch YouTube content"
	pageUnavailableMessage     = "Unable to fetch page content"
	transcriptSegmentSeparator = " "
	metadataSeparator          = "\n\n"
	pageDocumentSeparator      = "\n\n"
)

var ErrEmptyMetadata = errors.New("video has no title or description")

type TranscriptFetcher interface {
	Transcript(ctx context.Context, videoID string) ([]domain.TranscriptSegment, error)
}

type MetadataFetcher interface {
	Metadata(ctx context.Context, videoURL string) (domain.VideoMetadata, error)
}

type PageLoader interface {
	Load(ctx context.Context, pageURL string) ([]domain.Document, error)
}

// Acquirer turns a URL into plain text. YouTube URLs try the transcript first
// and fall back to title and description; other URLs get one page load.
type Acquirer struct {
	transcripts TranscriptFetcher
	metadata    MetadataFetcher
	pages       PageLoader
	log         *slog.Logger
}

func NewAcquirer(
	transcripts TranscriptFetcher,
	metadata MetadataFetcher,
	pages PageLoader,
	log *slog.Logger,
) *Acquirer {
	return &Acquirer{
		transcripts: transcripts,
		metadata:    metadata,
		pages:       pages,
		log:         log,
	}
}

func (a *Acquirer) Acquire(ctx context.Context, rawURL string) (domain.Document, error) {
	rawURL = strings.TrimSpace(rawURL)

	kind := source.Classify(rawURL)

	var (
		doc domain.Document
		err error
	)
	switch kind {
	case domain.SourceYouTube:
		doc, err = a.acquireYouTube(ctx, rawURL)
	default:
		doc, err = a.acquirePage(ctx, rawURL)
	}

	if err != nil {
		metrics.AcquisitionsTotal.WithLabelValues(string(kind), "", metrics.OutcomeFailure).Inc()

		return domain.Document{}, err
	}

	metrics.AcquisitionsTotal.WithLabelValues(string(kind), string(doc.Strategy), metrics.OutcomeSuccess).Inc()

	return doc, nil
}

func (a *Acquirer) acquireYouTube(ctx context.Context, videoURL string) (domain.Document, error) {
	videoID, ok := source.ExtractVideoID(videoURL)
	if !ok {
		return domain.Document{}, domain.NewError(domain.KindInvalidURL, invalidYouTubeURLMessage, nil)
	}

	segments, err := a.transcripts.Transcript(ctx, videoID)
	if err == nil {
		return domain.Document{
			Text:      joinTranscript(segments),
			SourceURL: videoURL,
			Strategy:  domain.StrategyTranscript,
		}, nil
	}

	a.log.WarnContext(ctx, "Transcript is unavailable so metadata fallback will be used",
		"error", err,
		"videoID", videoID)
	metrics.AcquisitionFallbacksTotal.Inc()

	meta, err := a.metadata.Metadata(ctx, videoURL)
	if err != nil {
		return domain.Document{}, domain.NewError(domain.KindAcquisitionFailed, youTubeUnavailableMessage, err)
	}

	if strings.TrimSpace(meta.Title) == "" && strings.TrimSpace(meta.Description) == "" {
		return domain.Document{}, domain.NewError(domain.KindAcquisitionFailed, youTubeUnavailableMessage, ErrEmptyMetadata)
	}

	return domain.Document{
		Text:      meta.Title + metadataSeparator + meta.Description,
		Title:     meta.Title,
		SourceURL: videoURL,
		Strategy:  domain.StrategyMetadata,
	}, nil
}

func (a *Acquirer) acquirePage(ctx context.Context, pageURL string) (domain.Document, error) {
	docs, err := a.pages.Load(ctx, pageURL)
	if err != nil {
		return domain.Document{}, domain.NewError(domain.KindAcquisitionFailed, pageUnavailableMessage, err)
	}

	var (
		texts []string
		title string
	)
	for _, d := range docs {
		if title == "" {
			title = strings.TrimSpace(d.Title)
		}

		text := strings.TrimSpace(d.Text)
		if text == "" {
			continue
		}
		texts = append(texts, text)
	}

	if len(texts) == 0 {
		return domain.Document{}, domain.NewError(
			domain.KindAcquisitionFailed,
			pageUnavailableMessage,
			errors.New("page has no extractable text"),
		)
	}

	return domain.Document{
		Text:      strings.Join(texts, pageDocumentSeparator),
		Title:     title,
		SourceURL: pageURL,
		Strategy:  domain.StrategyPage,
	}, nil
}

func joinTranscript(segments []domain.TranscriptSegment) string {
	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		texts = append(texts, s.Text)
	}

	return strings.Join(texts, transcriptSegmentSeparator)
}
