package checklist

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/errs"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/questionnaire"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/scoring"
)

func init() {
	// Freeze time for deterministic event stamps.
	timeNow = func() time.Time {
		return time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	}
}

// --- Helpers ---

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(questionnaire.Default(), scoring.MustPreset(scoring.VariantA), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func smallEngine(t *testing.T, mode Mode) *Engine {
	t.Helper()
	def := questionnaire.MustNew([]questionnaire.Item{
		{ID: 1, Prompt: "Constancia; vigente"},
		{ID: 2, Prompt: "Opinión SAT"},
		{ID: 3, Prompt: "IMSS"},
	})
	e, err := New(def, scoring.MustPreset(scoring.VariantA), WithMode(mode), WithSessionID("s-1"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func answer(t *testing.T, e *Engine, id int, v scoring.ResponseValue) {
	t.Helper()
	if err := e.SetResponse(id, v); err != nil {
		t.Fatalf("SetResponse(%d, %s): %v", id, v, err)
	}
}

func recordEvents(e *Engine) *[]Event {
	var events []Event
	e.Subscribe(func(ev Event) { events = append(events, ev) })
	return &events
}

func countKind(events []Event, kind EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// --- New ---

func TestNew_Defaults(t *testing.T) {
	e := newTestEngine(t)
	if e.Mode() != ModeTriState {
		t.Errorf("Mode = %s, want tristate", e.Mode())
	}
	if e.SessionID() == "" {
		t.Error("SessionID should be generated")
	}
	if e.RevealState() != Hidden {
		t.Errorf("RevealState = %s, want hidden", e.RevealState())
	}
	if e.AnsweredCount() != 0 || e.CompliantCount() != 0 {
		t.Error("new engine should have no answers")
	}
}

func TestNew_RequiresDependencies(t *testing.T) {
	if _, err := New(nil, scoring.MustPreset(scoring.VariantA)); !errors.Is(err, errs.ErrConfiguration) {
		t.Errorf("New(nil def) error = %v, want ConfigurationError", err)
	}
	if _, err := New(questionnaire.Default(), nil); !errors.Is(err, errs.ErrConfiguration) {
		t.Errorf("New(nil table) error = %v, want ConfigurationError", err)
	}
	if _, err := New(questionnaire.Default(), scoring.MustPreset(scoring.VariantA), WithMode("radio")); !errors.Is(err, errs.ErrConfiguration) {
		t.Errorf("New(bad mode) error = %v, want ConfigurationError", err)
	}
}

// --- SetResponse ---

func TestSetResponse_UnknownItem(t *testing.T) {
	e := newTestEngine(t)
	answer(t, e, 1, scoring.Compliant)
	before := e.Responses()

	err := e.SetResponse(99, scoring.Compliant)
	if !errors.Is(err, errs.ErrUnknownItem) {
		t.Fatalf("SetResponse(99) error = %v, want UnknownItemError", err)
	}
	var unknown *errs.UnknownItemError
	if !errors.As(err, &unknown) || unknown.ID != 99 {
		t.Errorf("error should carry id 99, got %v", err)
	}

	after := e.Responses()
	if len(after) != len(before) || after[1] != scoring.Compliant {
		t.Errorf("response map changed after rejected write: %v", after)
	}
}

func TestSetResponse_RejectsUnanswered(t *testing.T) {
	e := newTestEngine(t)
	answer(t, e, 2, scoring.NonCompliant)

	err := e.SetResponse(2, scoring.Unanswered)
	if !errors.Is(err, errs.ErrInvalidResponse) {
		t.Fatalf("SetResponse(Unanswered) error = %v, want InvalidResponseError", err)
	}
	if got := e.Response(2); got != scoring.NonCompliant {
		t.Errorf("Response(2) = %s, want non_compliant", got)
	}
}

func TestSetResponse_Overwrites(t *testing.T) {
	e := newTestEngine(t)
	answer(t, e, 3, scoring.Compliant)
	answer(t, e, 3, scoring.NonCompliant)

	if got := e.Response(3); got != scoring.NonCompliant {
		t.Errorf("Response(3) = %s, want non_compliant", got)
	}
	if e.AnsweredCount() != 1 || e.CompliantCount() != 0 {
		t.Errorf("counts = %d/%d, want 1 answered, 0 compliant", e.AnsweredCount(), e.CompliantCount())
	}
}

func TestSetResponse_IdempotentPublishesOnce(t *testing.T) {
	e := newTestEngine(t)
	events := recordEvents(e)

	answer(t, e, 4, scoring.Compliant)
	answer(t, e, 4, scoring.Compliant)

	if got := countKind(*events, EventResponseSet); got != 1 {
		t.Errorf("response_set events = %d, want 1", got)
	}
}

func TestResponse_DefaultsToUnanswered(t *testing.T) {
	e := newTestEngine(t)
	if got := e.Response(5); got != scoring.Unanswered {
		t.Errorf("Response(5) = %s, want unanswered", got)
	}
	if got := e.Response(500); got != scoring.Unanswered {
		t.Errorf("Response(500) = %s, want unanswered", got)
	}
}

// --- Invariants ---

func TestInvariants_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := newTestEngine(t)
	values := []scoring.ResponseValue{scoring.Compliant, scoring.NonCompliant}

	for step := 0; step < 2000; step++ {
		switch rng.Intn(12) {
		case 0:
			e.Reset()
		default:
			id := rng.Intn(12) // includes unknown ids 0 and 11
			_ = e.SetResponse(id, values[rng.Intn(2)])
		}

		answered, compliant, n := e.AnsweredCount(), e.CompliantCount(), e.Total()
		if compliant < 0 || compliant > answered || answered > n {
			t.Fatalf("step %d: invariant broken: compliant=%d answered=%d n=%d", step, compliant, answered, n)
		}
		if got, want := e.Percentage(), scoring.Percentage(compliant, n); got != want {
			t.Fatalf("step %d: Percentage = %v, want %v", step, got, want)
		}
	}
}

// --- Percentage & Tier ---

func TestPercentage_UnansweredNeverInflates(t *testing.T) {
	e := newTestEngine(t)
	answer(t, e, 1, scoring.Compliant)

	if got := e.Percentage(); got != 10 {
		t.Errorf("Percentage with 1/1 answered compliant = %v, want 10", got)
	}
}

func TestScenario_VariantA(t *testing.T) {
	tests := []struct {
		name          string
		compliant     int
		nonCompliant  int
		wantPct       float64
		wantTier      scoring.Tier
		wantCopyLabel string
	}{
		{"5 compliant, 5 unanswered", 5, 0, 50, scoring.Unfit, "No apto"},
		{"6 compliant, 4 non-compliant", 6, 4, 60, scoring.Conditional, "Condicionado"},
		{"9 compliant, 1 non-compliant", 9, 1, 90, scoring.Fit, "Apto"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			id := 1
			for i := 0; i < tt.compliant; i++ {
				answer(t, e, id, scoring.Compliant)
				id++
			}
			for i := 0; i < tt.nonCompliant; i++ {
				answer(t, e, id, scoring.NonCompliant)
				id++
			}
			if got := e.Percentage(); got != tt.wantPct {
				t.Errorf("Percentage = %v, want %v", got, tt.wantPct)
			}
			if got := e.Tier(); got != tt.wantTier {
				t.Errorf("Tier = %s, want %s", got, tt.wantTier)
			}
			if got := e.Copy().Label; got != tt.wantCopyLabel {
				t.Errorf("Copy().Label = %q, want %q", got, tt.wantCopyLabel)
			}
		})
	}
}

func TestTier_MonotonicInCompliantCount(t *testing.T) {
	e := newTestEngine(t)
	for id := 1; id <= 10; id++ {
		answer(t, e, id, scoring.NonCompliant)
	}
	prev := e.Tier().Rank()
	for id := 1; id <= 10; id++ {
		answer(t, e, id, scoring.Compliant)
		rank := e.Tier().Rank()
		if rank < prev {
			t.Fatalf("tier rank decreased from %d to %d after item %d became compliant", prev, rank, id)
		}
		prev = rank
	}
}

// --- Reveal state machine ---

func TestReveal_AutoOnCompletionExactlyOnce(t *testing.T) {
	e := newTestEngine(t)
	events := recordEvents(e)

	order := rand.New(rand.NewSource(3)).Perm(10)
	for i, p := range order {
		v := scoring.Compliant
		if i%3 == 0 {
			v = scoring.NonCompliant
		}
		answer(t, e, p+1, v)
		if i < 9 && e.Revealed() {
			t.Fatalf("revealed after only %d answers", i+1)
		}
	}

	if !e.Revealed() {
		t.Fatal("result should be revealed once all items are answered")
	}
	if got := countKind(*events, EventRevealed); got != 1 {
		t.Fatalf("revealed events = %d, want 1", got)
	}
	last := (*events)[len(*events)-1]
	if !last.Auto {
		t.Error("completion reveal should be flagged Auto")
	}

	// An 11th answer changing an existing value must not re-fire.
	answer(t, e, 5, scoring.NonCompliant)
	answer(t, e, 5, scoring.Compliant)
	if got := countKind(*events, EventRevealed); got != 1 {
		t.Errorf("revealed events after re-answering = %d, want 1", got)
	}
}

func TestReveal_DismissedStaysHiddenOnReanswer(t *testing.T) {
	e := newTestEngine(t)
	for id := 1; id <= 10; id++ {
		answer(t, e, id, scoring.Compliant)
	}
	e.Dismiss()
	if e.Revealed() {
		t.Fatal("Dismiss should hide the result")
	}

	answer(t, e, 2, scoring.NonCompliant)
	if e.Revealed() {
		t.Error("re-answering while complete must not reveal again")
	}
}

func TestReveal_ShowIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	events := recordEvents(e)

	e.Show()
	e.Show()
	if !e.Revealed() {
		t.Fatal("Show should reveal")
	}
	if got := countKind(*events, EventRevealed); got != 1 {
		t.Errorf("revealed events = %d, want 1", got)
	}
	if (*events)[0].Auto {
		t.Error("explicit Show should not be flagged Auto")
	}
}

func TestReveal_ShowBeforeCompletionThenComplete(t *testing.T) {
	e := newTestEngine(t)
	events := recordEvents(e)

	e.Show()
	for id := 1; id <= 10; id++ {
		answer(t, e, id, scoring.Compliant)
	}
	if got := countKind(*events, EventRevealed); got != 1 {
		t.Errorf("revealed events = %d, want 1 (already revealed)", got)
	}
	if !e.Revealed() {
		t.Error("result should stay revealed")
	}
}

func TestReveal_DismissWhenHiddenIsNoop(t *testing.T) {
	e := newTestEngine(t)
	events := recordEvents(e)
	e.Dismiss()
	if len(*events) != 0 {
		t.Errorf("Dismiss while hidden published %d events", len(*events))
	}
}

func TestReveal_CompletesAgainAfterReset(t *testing.T) {
	e := newTestEngine(t)
	events := recordEvents(e)

	for round := 0; round < 2; round++ {
		for id := 1; id <= 10; id++ {
			answer(t, e, id, scoring.Compliant)
		}
		e.Reset()
	}
	if got := countKind(*events, EventRevealed); got != 2 {
		t.Errorf("revealed events over two completions = %d, want 2", got)
	}
}

// --- Reset ---

func TestReset_ClearsResponsesAndReveal(t *testing.T) {
	e := smallEngine(t, ModeTriState)
	answer(t, e, 1, scoring.Compliant)
	answer(t, e, 2, scoring.NonCompliant)
	answer(t, e, 3, scoring.Compliant)
	if !e.Revealed() {
		t.Fatal("precondition: result should be revealed")
	}

	e.Reset()

	if e.Revealed() {
		t.Error("Reset should hide the result")
	}
	if e.AnsweredCount() != 0 {
		t.Errorf("AnsweredCount after Reset = %d, want 0", e.AnsweredCount())
	}
	for _, row := range e.ExportRows() {
		if row.Value != "" {
			t.Errorf("row %q value = %q after Reset, want empty", row.Label, row.Value)
		}
	}
}

func TestReset_CheckboxExportsZeros(t *testing.T) {
	e := smallEngine(t, ModeCheckbox)
	answer(t, e, 2, scoring.Compliant)
	e.Reset()
	for _, row := range e.ExportRows() {
		if row.Value != "0" {
			t.Errorf("row %q value = %q after Reset, want 0", row.Label, row.Value)
		}
	}
}

// --- ExportRows ---

func TestExportRows_TriState(t *testing.T) {
	e := smallEngine(t, ModeTriState)
	answer(t, e, 1, scoring.Compliant)
	answer(t, e, 2, scoring.NonCompliant)

	rows := e.ExportRows()
	want := []Row{
		{Label: "1. Constancia, vigente", Value: "1"},
		{Label: "2. Opinión SAT", Value: "0"},
		{Label: "3. IMSS", Value: ""},
	}
	if len(rows) != len(want) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestExportRows_CheckboxCollapsesUnanswered(t *testing.T) {
	e := smallEngine(t, ModeCheckbox)
	answer(t, e, 1, scoring.Compliant)

	rows := e.ExportRows()
	if rows[1].Value != "0" || rows[2].Value != "0" {
		t.Errorf("unanswered rows = %q, %q, want 0, 0", rows[1].Value, rows[2].Value)
	}
	if e.AnsweredCount() != 1 {
		t.Errorf("checkbox mode must still count unanswered separately: answered = %d", e.AnsweredCount())
	}
}

func TestExportRows_NoSideEffects(t *testing.T) {
	e := smallEngine(t, ModeTriState)
	events := recordEvents(e)
	answer(t, e, 1, scoring.Compliant)
	n := len(*events)

	_ = e.ExportRows()
	_ = e.ExportRows()

	if len(*events) != n {
		t.Error("ExportRows published events")
	}
	if e.AnsweredCount() != 1 {
		t.Error("ExportRows changed state")
	}
}

// --- Events ---

func TestEvents_CarryDerivedCounts(t *testing.T) {
	e := smallEngine(t, ModeTriState)
	events := recordEvents(e)

	answer(t, e, 1, scoring.Compliant)
	answer(t, e, 2, scoring.NonCompliant)

	ev := (*events)[1]
	if ev.Kind != EventResponseSet || ev.ItemID != 2 || ev.Value != scoring.NonCompliant {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.Answered != 2 || ev.Compliant != 1 || ev.Total != 3 {
		t.Errorf("event counts = %d/%d/%d, want 2/1/3", ev.Answered, ev.Compliant, ev.Total)
	}
	if ev.SessionID != "s-1" {
		t.Errorf("SessionID = %q, want s-1", ev.SessionID)
	}
	if !ev.At.Equal(time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("At = %v, want frozen time", ev.At)
	}
}

func TestEvents_Unsubscribe(t *testing.T) {
	e := smallEngine(t, ModeTriState)
	calls := 0
	unsubscribe := e.Subscribe(func(Event) { calls++ })

	answer(t, e, 1, scoring.Compliant)
	unsubscribe()
	answer(t, e, 2, scoring.Compliant)

	if calls != 1 {
		t.Errorf("subscriber calls = %d, want 1", calls)
	}
}

func TestEvents_OrderOnCompletion(t *testing.T) {
	e := smallEngine(t, ModeTriState)
	events := recordEvents(e)
	answer(t, e, 1, scoring.Compliant)
	answer(t, e, 2, scoring.Compliant)
	answer(t, e, 3, scoring.Compliant)

	kinds := make([]EventKind, len(*events))
	for i, ev := range *events {
		kinds[i] = ev.Kind
	}
	want := []EventKind{EventResponseSet, EventResponseSet, EventResponseSet, EventRevealed}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

// --- Result & Items ---

func TestResult_Snapshot(t *testing.T) {
	e := newTestEngine(t, WithSessionID("abc"))
	for id := 1; id <= 9; id++ {
		answer(t, e, id, scoring.Compliant)
	}
	answer(t, e, 10, scoring.NonCompliant)

	r := e.Result()
	if r.SessionID != "abc" || r.Total != 10 || r.Answered != 10 || r.Compliant != 9 {
		t.Errorf("unexpected counts: %+v", r)
	}
	if !r.Complete || r.Percentage != 90 || r.Tier != scoring.Fit || r.Reveal != Revealed {
		t.Errorf("unexpected derived values: %+v", r)
	}
	if r.Copy.Heading == "" {
		t.Error("result copy heading should be set")
	}
}

func TestItems_IncludesResponses(t *testing.T) {
	e := newTestEngine(t)
	answer(t, e, 8, scoring.Compliant)

	items := e.Items()
	if len(items) != 10 {
		t.Fatalf("len(Items) = %d, want 10", len(items))
	}
	if items[7].Response != scoring.Compliant || items[7].ReferenceURL == "" {
		t.Errorf("item 8 = %+v", items[7])
	}
	if items[0].Response != scoring.Unanswered {
		t.Errorf("item 1 response = %s, want unanswered", items[0].Response)
	}
}

// --- Mode ---

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("Checkbox"); err != nil || m != ModeCheckbox {
		t.Errorf("ParseMode(Checkbox) = %s, %v", m, err)
	}
	if _, err := ParseMode("radio"); err == nil {
		t.Error("ParseMode(radio) should fail")
	}
}

func TestEvents_WithClock(t *testing.T) {
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.FixedZone("CST", -6*3600))
	e := newTestEngine(t, WithClock(func() time.Time { return at }))
	events := recordEvents(e)

	answer(t, e, 1, scoring.Compliant)

	if len(*events) != 1 {
		t.Fatalf("events = %d, want 1", len(*events))
	}
	if got := (*events)[0].At; !got.Equal(at) || got.Location() != time.UTC {
		t.Errorf("At = %v, want %v in UTC", got, at)
	}
}
