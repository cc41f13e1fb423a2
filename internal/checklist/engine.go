package checklist

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/errs"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/questionnaire"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/scoring"
)

// FieldSeparator is the CSV field separator. It is replaced by
// FieldSeparatorReplacement inside export labels.
const (
	FieldSeparator            = ";"
	FieldSeparatorReplacement = ","
)

// Engine holds the responses of one session.
type Engine struct {
	def       *questionnaire.Definition
	table     *scoring.Table
	mode      Mode
	sessionID string
	now       func() time.Time

	responses map[int]scoring.ResponseValue
	reveal    RevealState

	subscribers []subscriber
	nextSubID   int
}

type subscriber struct {
	id int
	fn func(Event)
}

// Option configures an Engine.
type Option func(*Engine)

// WithMode sets the answer-encoding mode (default ModeTriState).
func WithMode(m Mode) Option { return func(e *Engine) { e.mode = m } }

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option { return func(e *Engine) { e.sessionID = id } }

// WithClock sets the clock used to stamp events.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// New creates an Engine with an empty response map and a hidden result.
func New(def *questionnaire.Definition, table *scoring.Table, opts ...Option) (*Engine, error) {
	if def == nil {
		return nil, errs.Configuration("checklist requires a questionnaire definition")
	}
	if table == nil {
		return nil, errs.Configuration("checklist requires a threshold table")
	}
	e := &Engine{
		def:       def,
		table:     table,
		mode:      ModeTriState,
		responses: make(map[int]scoring.ResponseValue, def.Len()),
		reveal:    Hidden,
		now:       timeNow,
	}
	for _, o := range opts {
		o(e)
	}
	if !validModes[e.mode] {
		return nil, errs.Configuration("invalid checklist mode %q", e.mode)
	}
	if e.now == nil {
		e.now = timeNow
	}
	if e.sessionID == "" {
		e.sessionID = uuid.NewString()
	}
	return e, nil
}

// --- Commands ---

// SetResponse records value for item id, replacing any previous value.
// It fails with UnknownItemError for ids outside the definition and with
// InvalidResponseError for values other than Compliant or NonCompliant; in
// both cases the response map is left unchanged.
//
// When this call moves the answered count to N, the result is revealed.
// Re-answering once complete does not reveal again.
func (e *Engine) SetResponse(id int, value scoring.ResponseValue) error {
	if !e.def.Has(id) {
		return &errs.UnknownItemError{ID: id}
	}
	if !value.Writable() {
		return &errs.InvalidResponseError{ID: id, Value: string(value)}
	}

	before := e.AnsweredCount()
	if e.Response(id) == value {
		return nil
	}
	e.responses[id] = value
	e.publish(Event{Kind: EventResponseSet, ItemID: id, Value: value})

	if total := e.Total(); before < total && e.AnsweredCount() == total {
		e.show(true)
	}
	return nil
}

// Reset clears every response and hides the result.
func (e *Engine) Reset() {
	e.responses = make(map[int]scoring.ResponseValue, e.def.Len())
	e.reveal = Hidden
	e.publish(Event{Kind: EventReset})
}

// Show reveals the result. Calling it while revealed is a no-op.
func (e *Engine) Show() {
	e.show(false)
}

// Dismiss hides the result. Calling it while hidden is a no-op.
func (e *Engine) Dismiss() {
	if e.reveal == Hidden {
		return
	}
	e.reveal = Hidden
	e.publish(Event{Kind: EventDismissed})
}

func (e *Engine) show(auto bool) {
	if e.reveal == Revealed {
		return
	}
	e.reveal = Revealed
	e.publish(Event{Kind: EventRevealed, Auto: auto})
}

// --- Subscriptions ---

// Subscribe registers fn to receive every Event, in order, synchronously
// after the mutation. The returned func removes the subscription.
func (e *Engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	e.nextSubID++
	id := e.nextSubID
	e.subscribers = append(e.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range e.subscribers {
			if s.id == id {
				e.subscribers = append(e.subscribers[:i:i], e.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) publish(ev Event) {
	if len(e.subscribers) == 0 {
		return
	}
	ev.SessionID = e.sessionID
	ev.Answered = e.AnsweredCount()
	ev.Compliant = e.CompliantCount()
	ev.Total = e.Total()
	ev.Reveal = e.reveal
	ev.At = e.now().UTC()

	// Copy so subscribers may unsubscribe during delivery.
	subs := make([]subscriber, len(e.subscribers))
	copy(subs, e.subscribers)
	for _, s := range subs {
		s.fn(ev)
	}
}

// --- Reads ---

// SessionID identifies this engine in logs and exports.
func (e *Engine) SessionID() string { return e.sessionID }

// Mode returns the answer-encoding mode.
func (e *Engine) Mode() Mode { return e.mode }

// Definition returns the questionnaire.
func (e *Engine) Definition() *questionnaire.Definition { return e.def }

// Table returns the threshold table.
func (e *Engine) Table() *scoring.Table { return e.table }

// Total returns the item count N.
func (e *Engine) Total() int { return e.def.Len() }

// Response returns the value for id, Unanswered when none was recorded.
func (e *Engine) Response(id int) scoring.ResponseValue {
	if v, ok := e.responses[id]; ok {
		return v
	}
	return scoring.Unanswered
}

// Responses returns a copy of the recorded (answered) responses.
func (e *Engine) Responses() map[int]scoring.ResponseValue {
	out := make(map[int]scoring.ResponseValue, len(e.responses))
	for id, v := range e.responses {
		out[id] = v
	}
	return out
}

// AnsweredCount returns the number of items with a recorded answer.
func (e *Engine) AnsweredCount() int {
	n := 0
	for _, v := range e.responses {
		if v.Answered() {
			n++
		}
	}
	return n
}

// CompliantCount returns the number of items answered Compliant.
func (e *Engine) CompliantCount() int {
	n := 0
	for _, v := range e.responses {
		if v == scoring.Compliant {
			n++
		}
	}
	return n
}

// Complete reports whether every item has been answered.
func (e *Engine) Complete() bool {
	return e.AnsweredCount() == e.Total()
}

// Percentage returns 100*compliant/N.
func (e *Engine) Percentage() float64 {
	return scoring.Percentage(e.CompliantCount(), e.Total())
}

// Tier classifies the current percentage.
func (e *Engine) Tier() scoring.Tier {
	return e.table.Classify(e.Percentage())
}

// Copy returns the guidance text for the current tier.
func (e *Engine) Copy() scoring.TierCopy {
	return e.table.Copy(e.Tier())
}

// RevealState returns the reveal-result state.
func (e *Engine) RevealState() RevealState { return e.reveal }

// Revealed reports whether the result panel should be shown.
func (e *Engine) Revealed() bool { return e.reveal == Revealed }

// Result returns a snapshot of every derived value.
func (e *Engine) Result() Result {
	tier := e.Tier()
	return Result{
		SessionID:  e.sessionID,
		Mode:       e.mode,
		Total:      e.Total(),
		Answered:   e.AnsweredCount(),
		Compliant:  e.CompliantCount(),
		Complete:   e.Complete(),
		Percentage: e.Percentage(),
		Tier:       tier,
		Copy:       e.table.Copy(tier),
		Reveal:     e.reveal,
	}
}

// Items returns every item with its current response, in definition order.
func (e *Engine) Items() []ItemState {
	items := e.def.Items()
	out := make([]ItemState, len(items))
	for i, it := range items {
		out[i] = ItemState{
			ID:           it.ID,
			Prompt:       it.Prompt,
			Note:         it.Note,
			ReferenceURL: it.ReferenceURL,
			Response:     e.Response(it.ID),
		}
	}
	return out
}

// ExportRows projects the current state into one row per item, in definition
// order. Labels are "<id>. <prompt>" with the field separator replaced;
// values are "1" for Compliant, "0" for NonCompliant and the mode's
// unanswered encoding otherwise. ExportRows has no side effects.
func (e *Engine) ExportRows() []Row {
	items := e.def.Items()
	rows := make([]Row, len(items))
	for i, it := range items {
		rows[i] = Row{
			Label: strings.ReplaceAll(it.Label(), FieldSeparator, FieldSeparatorReplacement),
			Value: e.mode.Encode(e.Response(it.ID)),
		}
	}
	return rows
}

// Encode returns the export encoding of v under mode m.
func (m Mode) Encode(v scoring.ResponseValue) string {
	switch v {
	case scoring.Compliant:
		return "1"
	case scoring.NonCompliant:
		return "0"
	default:
		return m.UnansweredValue()
	}
}
