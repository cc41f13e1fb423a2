// Package checklist is the scoring and state engine for one questionnaire
// session.
//
// The Engine owns the response map, derives the answered/compliant counts,
// percentage and tier on every read, and runs the reveal-result state machine.
// It is single-threaded: one Engine belongs to one session and every call runs
// to completion. Callers that share an Engine across goroutines must
// serialize access themselves.
package checklist

import (
	"fmt"
	"strings"
	"time"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/scoring"
)

// --- Answer-encoding mode ---

// Mode selects the answer encoding of the front end.
type Mode string

const (
	// ModeTriState is the Sí/No/unanswered radio variant. Unanswered items
	// export as an empty value.
	ModeTriState Mode = "tristate"
	// ModeCheckbox is the checked/unchecked variant. A checkbox has no third
	// state, so unanswered items export as "0".
	ModeCheckbox Mode = "checkbox"
)

var validModes = map[Mode]bool{
	ModeTriState: true,
	ModeCheckbox: true,
}

// ParseMode normalizes a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !validModes[m] {
		return "", fmt.Errorf("invalid checklist mode %q: must be one of: tristate, checkbox", s)
	}
	return m, nil
}

// UnansweredValue is the encoded export value for an unanswered item.
func (m Mode) UnansweredValue() string {
	if m == ModeCheckbox {
		return "0"
	}
	return ""
}

// --- Reveal-result state machine ---

// RevealState tells the presentation layer whether to show the result panel.
type RevealState string

const (
	Hidden   RevealState = "hidden"
	Revealed RevealState = "revealed"
)

// --- Change events ---

// EventKind identifies the mutation that produced an Event.
type EventKind string

const (
	EventResponseSet EventKind = "response_set"
	EventReset       EventKind = "reset"
	EventRevealed    EventKind = "revealed"
	EventDismissed   EventKind = "dismissed"
)

// Event is published to subscribers after every state change.
type Event struct {
	Kind      EventKind             `json:"kind"`
	SessionID string                `json:"session_id"`
	ItemID    int                   `json:"item_id,omitempty"`
	Value     scoring.ResponseValue `json:"value,omitempty"`
	Answered  int                   `json:"answered"`
	Compliant int                   `json:"compliant"`
	Total     int                   `json:"total"`
	Reveal    RevealState           `json:"reveal"`
	// Auto is set on EventRevealed when completion triggered the reveal
	// rather than an explicit Show.
	Auto bool      `json:"auto,omitempty"`
	At   time.Time `json:"at"`
}

// --- Projections ---

// Row is one export line: the item label and its encoded value.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ItemState is one item with its current response.
type ItemState struct {
	ID           int                   `json:"id"`
	Prompt       string                `json:"prompt"`
	Note         string                `json:"note,omitempty"`
	ReferenceURL string                `json:"reference_url,omitempty"`
	Response     scoring.ResponseValue `json:"response"`
}

// Result is a read-only snapshot of the derived metrics.
type Result struct {
	SessionID  string           `json:"session_id"`
	Mode       Mode             `json:"mode"`
	Total      int              `json:"total"`
	Answered   int              `json:"answered"`
	Compliant  int              `json:"compliant"`
	Complete   bool             `json:"complete"`
	Percentage float64          `json:"percentage"`
	Tier       scoring.Tier     `json:"tier"`
	Copy       scoring.TierCopy `json:"copy"`
	Reveal     RevealState      `json:"reveal"`
}
