// Package youtube fetches transcripts and video metadata through github.com/kkdai/youtube/v2.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"summify/internal/domain"
	"time"

	yt "github.com/kkdai/youtube/v2"
)

const DefaultLanguage = "en"

type videoAPI interface {
	GetVideoContext(ctx context.Context, url string) (*yt.Video, error)
	GetTranscriptCtx(ctx context.Context, video *yt.Video, lang string) (yt.VideoTranscript, error)
}

// Client implements content.TranscriptFetcher and content.MetadataFetcher.
type Client struct {
	api      videoAPI
	language string
	log      *slog.Logger
}

func New(timeout time.Duration, language string, log *slog.Logger) *Client {
	return newClient(
		&yt.Client{HTTPClient: &http.Client{Timeout: timeout}},
		language,
		log,
	)
}

func newClient(api videoAPI, language string, log *slog.Logger) *Client {
	language = strings.TrimSpace(language)
	if language == "" {
		language = DefaultLanguage
	}

	return &Client{api: api, language: language, log: log}
}

func (c *Client) Transcript(
	ctx context.Context,
	videoID string,
) ([]domain.TranscriptSegment, error) {
	video, err := c.api.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("get video (videoID = %s): %w", videoID, err)
	}

	transcript, err := c.api.GetTranscriptCtx(ctx, video, c.language)
	if err != nil {
		return nil, fmt.Errorf("get transcript (videoID = %s, language = %s): %w", videoID, c.language, err)
	}

	if len(transcript) == 0 {
		return nil, fmt.Errorf("get transcript (videoID = %s): %w", videoID, yt.ErrTranscriptDisabled)
	}

	segments := make([]domain.TranscriptSegment, 0, len(transcript))
	for _, s := range transcript {
		segments = append(segments, domain.TranscriptSegment{
			Text:     s.Text,
			Start:    time.Duration(s.StartMs) * time.Millisecond,
			Duration: time.Duration(s.Duration) * time.Millisecond,
		})
	}

	c.log.DebugContext(ctx, "Transcript is fetched",
		"videoID", videoID,
		"language", c.language,
		"segmentCount", len(segments))

	return segments, nil
}

func (c *Client) Metadata(
	ctx context.Context,
	videoURL string,
) (domain.VideoMetadata, error) {
	video, err := c.api.GetVideoContext(ctx, videoURL)
	if err != nil {
		return domain.VideoMetadata{}, fmt.Errorf("get video: %w", err)
	}

	if video == nil {
		return domain.VideoMetadata{}, errors.New("get video: empty response")
	}

	return domain.VideoMetadata{
		Title:       video.Title,
		Description: video.Description,
	}, nil
}
