package domain

import "time"

type SourceKind string

const (
	SourceGeneric SourceKind = "generic"
	SourceYouTube SourceKind = "youtube"
)

type Strategy string

const (
	StrategyTranscript Strategy = "transcript"
	StrategyMetadata   Strategy = "metadata"
	StrategyPage       Strategy = "page"
)

// Document is the plain text acquired for a single pipeline run.
type Document struct {
	Text      string
	Title     string
	SourceURL string
	Strategy  Strategy
}

type TranscriptSegment struct {
	Text     string
	Start    time.Duration
	Duration time.Duration
}

type VideoMetadata struct {
	Title       string
	Description string
}

// Session is the per-submission state owned by the presentation layer.
type Session struct {
	URL        string
	Credential string
	Result     *Result
}

type Result struct {
	Summary  string
	Kind     SourceKind
	Strategy Strategy
	Err      error
}
