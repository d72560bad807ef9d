package fetch

import (
	"fmt"

	"github.com/knowseek/knowseek/internal/validate"
)

// OutcomeKind is the top-level classification of one fetch attempt.
type OutcomeKind int

const (
	// KindExtracted means the page yielded validated, usable text.
	KindExtracted OutcomeKind = iota
	// KindRejected means the page was reachable but its content failed
	// validation. Rejections never make a URL worth retrying.
	KindRejected
	// KindFailed means the request itself failed; Retryable says whether a
	// later attempt against the same URL could still succeed.
	KindFailed
)

// FailReason classifies a failed request.
type FailReason int

const (
	FailNone FailReason = iota
	// FailHTTPStatus carries the non-2xx status in Outcome.StatusCode.
	FailHTTPStatus
	// FailNetwork covers timeouts, resets and DNS errors.
	FailNetwork
	// FailUnknown covers unexpected parse or runtime errors.
	FailUnknown
)

// Outcome is the tagged result of fetching one URL. Exactly one of the kinds
// applies; callers branch on Kind instead of unwinding errors.
type Outcome struct {
	Kind         OutcomeKind
	Title        string
	Text         string
	RejectReason validate.Reason
	FailReason   FailReason
	StatusCode   int
	Retryable    bool
	Err          error
}

// Extracted reports whether the fetch produced usable text.
func (o Outcome) Extracted() bool { return o.Kind == KindExtracted }

// Describe renders the outcome as one log-friendly line, mirroring the
// per-source entries of the cumulative error report.
func (o Outcome) Describe() string {
	switch o.Kind {
	case KindExtracted:
		return fmt.Sprintf("extrahiert (%d Zeichen)", len(o.Text))
	case KindRejected:
		switch o.RejectReason {
		case validate.ReasonTooShort:
			return fmt.Sprintf("[Konnte keinen substanziellen Text extrahieren - Länge: %d]", len(o.Text))
		default:
			return "[Ungültiger Inhalt erkannt: Weiterleitungs- oder Platzhalter-Text.]"
		}
	default:
		switch o.FailReason {
		case FailHTTPStatus:
			return fmt.Sprintf("[Fehler: Zugriff verweigert (Code: %d)]", o.StatusCode)
		case FailNetwork:
			return fmt.Sprintf("[Netzwerkfehler: %v]", o.Err)
		default:
			return fmt.Sprintf("[Unerwarteter Fehler: %v]", o.Err)
		}
	}
}

func rejected(title, text string, reason validate.Reason) Outcome {
	return Outcome{Kind: KindRejected, Title: title, Text: text, RejectReason: reason}
}

func failedStatus(code int) Outcome {
	// 403 and 404 are dead ends for a URL; everything else may be transient.
	retryable := code != 403 && code != 404
	return Outcome{
		Kind:       KindFailed,
		FailReason: FailHTTPStatus,
		StatusCode: code,
		Retryable:  retryable,
		Err:        fmt.Errorf("unexpected status: %d", code),
	}
}

func failedNetwork(err error) Outcome {
	return Outcome{Kind: KindFailed, FailReason: FailNetwork, Retryable: true, Err: err}
}

func failedUnknown(err error) Outcome {
	return Outcome{Kind: KindFailed, FailReason: FailUnknown, Retryable: false, Err: err}
}
