package web

import (
	"net/http"
	"summify/internal/domain"
)

const (
	pageTitle   = "Summify: Instant AI Summaries"
	subheading  = "Summarize a Website or YouTube Video"
	buttonLabel = "Summarize the Content"

	rateLimitedMessage = "Too many requests. Please wait a minute and try again."
)

type pageView struct {
	PageTitle   string
	Subheading  string
	ButtonLabel string
	URL         string
	Summary     string
	Kind        domain.SourceKind
	Strategy    domain.Strategy
	Error       string
}

// newPageView maps a session onto what the page shows. The credential is
// never part of the view.
func newPageView(session domain.Session) pageView {
	view := pageView{
		PageTitle:   pageTitle,
		Subheading:  subheading,
		ButtonLabel: buttonLabel,
		URL:         session.URL,
	}

	if session.Result == nil {
		return view
	}

	if session.Result.Err != nil {
		view.Error = session.Result.Err.Error()
		return view
	}

	view.Summary = session.Result.Summary
	view.Kind = session.Result.Kind
	view.Strategy = session.Result.Strategy

	return view
}

func statusFor(session domain.Session) int {
	if session.Result == nil || session.Result.Err == nil {
		return http.StatusOK
	}

	switch domain.KindOf(session.Result.Err) {
	case domain.KindInvalidInput, domain.KindInvalidURL:
		return http.StatusUnprocessableEntity
	case domain.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}
