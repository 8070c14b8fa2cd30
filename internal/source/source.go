package source

import (
	"net/url"
	"strings"
	"summify/internal/domain"
	"unicode"

	"mvdan.cc/xurls/v2"
)

const (
	youTubeHost      = "youtube.com"
	youTubeWWWHost   = "www.youtube.com"
	youTubeShortHost = "youtu.be"
	videoIDQueryKey  = "v"

	missingInputsMessage = "Please provide all required inputs."
	invalidURLMessage    = "Please enter a valid URL."
)

// Classify reports a URL as YouTube when it mentions a YouTube host anywhere
// in the string. Query parameters count too.
func Classify(rawURL string) domain.SourceKind {
	if strings.Contains(rawURL, youTubeHost) || strings.Contains(rawURL, youTubeShortHost) {
		return domain.SourceYouTube
	}

	return domain.SourceGeneric
}

// ExtractVideoID returns the video identifier for watch and short-link URLs.
func ExtractVideoID(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}

	switch u.Hostname() {
	case youTubeHost, youTubeWWWHost:
		ids := u.Query()[videoIDQueryKey]
		if len(ids) == 0 || ids[0] == "" {
			return "", false
		}

		return ids[0], true
	case youTubeShortHost:
		id := strings.TrimPrefix(u.Path, "/")
		if id == "" {
			return "", false
		}

		return id, true
	default:
		return "", false
	}
}

// ValidateInput runs the checks that must pass before any network call.
func ValidateInput(rawURL string, credential string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" || strings.TrimSpace(credential) == "" {
		return domain.NewError(domain.KindInvalidInput, missingInputsMessage, nil)
	}

	if !isValidURL(rawURL) {
		return domain.NewError(domain.KindInvalidInput, invalidURLMessage, nil)
	}

	return nil
}

func isValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	if u.Hostname() == "" {
		return false
	}

	if strings.ContainsFunc(rawURL, unicode.IsSpace) {
		return false
	}

	// xurls trims trailing punctuation, so only the start of the match is checked.
	loc := xurls.Strict().FindStringIndex(rawURL)

	return loc != nil && loc[0] == 0
}
