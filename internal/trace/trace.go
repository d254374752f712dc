// Package trace records how a score came to be, for compliance review
// and debugging. A request that does not ask for a trace gets the
// disabled singleton: every call on it is a no-op, data builders are
// never invoked, and nothing is allocated or timed.
package trace

import (
	"sync"
	"time"

	"github.com/watchlist-screener/app/models"
)

// Phase labels the stage of the matching pipeline an event belongs to.
type Phase string

const (
	PhaseNormalization     Phase = "NORMALIZATION"
	PhaseTokenization      Phase = "TOKENIZATION"
	PhasePhoneticFilter    Phase = "PHONETIC_FILTER"
	PhaseNameComparison    Phase = "NAME_COMPARISON"
	PhaseAltNameComparison Phase = "ALT_NAME_COMPARISON"
	PhaseGovIDComparison   Phase = "GOV_ID_COMPARISON"
	PhaseCryptoComparison  Phase = "CRYPTO_COMPARISON"
	PhaseContactComparison Phase = "CONTACT_COMPARISON"
	PhaseAddressComparison Phase = "ADDRESS_COMPARISON"
	PhaseDateComparison    Phase = "DATE_COMPARISON"
	PhaseAggregation       Phase = "AGGREGATION"
	PhaseFiltering         Phase = "FILTERING"
)

// Event is one recorded step.
type Event struct {
	Phase       Phase          `json:"phase"`
	Description string         `json:"description"`
	OffsetMS    int64          `json:"offset_ms"`
	DurationMS  int64          `json:"duration_ms,omitempty"`
	Error       string         `json:"error,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

// Trace is the immutable result of a recording session.
type Trace struct {
	SessionID  string                 `json:"session_id"`
	DurationMS int64                  `json:"duration_ms"`
	Events     []Event                `json:"events"`
	Metadata   map[string]string      `json:"metadata,omitempty"`
	Breakdown  *models.ScoreBreakdown `json:"breakdown,omitempty"`
}

// Context is the recording interface handed through the scorer.
// Implementations must be safe for concurrent use; batch scoring
// records from many goroutines at once. Data for RecordData must be
// built inside the closure so the disabled path never evaluates it.
type Context interface {
	Enabled() bool
	Record(phase Phase, description string)
	RecordData(phase Phase, description string, data func() map[string]any)
	Traced(phase Phase, description string, op func() error) error
	WithMetadata(key, value string)
	WithBreakdown(b models.ScoreBreakdown)
	Finalize() *Trace
}

var (
	_ Context = disabledContext{}
	_ Context = (*Recorder)(nil)
)

// Disabled returns the shared no-op context.
func Disabled() Context { return disabledContext{} }

type disabledContext struct{}

func (disabledContext) Enabled() bool                                   { return false }
func (disabledContext) Record(Phase, string)                            {}
func (disabledContext) RecordData(Phase, string, func() map[string]any) {}
func (disabledContext) WithMetadata(string, string)                     {}
func (disabledContext) WithBreakdown(models.ScoreBreakdown)             {}
func (disabledContext) Finalize() *Trace                                { return nil }
func (disabledContext) Traced(_ Phase, _ string, op func() error) error { return op() }

// Recorder is the enabled implementation.
type Recorder struct {
	sessionID string
	started   time.Time

	mu        sync.Mutex
	events    []Event
	metadata  map[string]string
	breakdown *models.ScoreBreakdown
}

// NewRecorder starts an enabled recording session.
func NewRecorder(sessionID string) *Recorder {
	return &Recorder{
		sessionID: sessionID,
		started:   time.Now(),
		metadata:  make(map[string]string),
	}
}

// Enabled always reports true.
func (r *Recorder) Enabled() bool { return true }

// Record appends a plain event.
func (r *Recorder) Record(phase Phase, description string) {
	r.append(Event{Phase: phase, Description: description, OffsetMS: r.offset()})
}

// RecordData appends an event with lazily-built payload.
func (r *Recorder) RecordData(phase Phase, description string, data func() map[string]any) {
	ev := Event{Phase: phase, Description: description, OffsetMS: r.offset()}
	if data != nil {
		ev.Data = data()
	}
	r.append(ev)
}

// Traced runs op, records its duration and outcome, and propagates the
// error unchanged.
func (r *Recorder) Traced(phase Phase, description string, op func() error) error {
	offset := r.offset()
	start := time.Now()
	err := op()

	ev := Event{
		Phase:       phase,
		Description: description,
		OffsetMS:    offset,
		DurationMS:  time.Since(start).Milliseconds(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	r.append(ev)
	return err
}

// WithMetadata attaches a key/value pair to the session.
func (r *Recorder) WithMetadata(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metadata[key] = value
}

// WithBreakdown attaches the final score breakdown.
func (r *Recorder) WithBreakdown(b models.ScoreBreakdown) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breakdown = &b
}

// Finalize snapshots the session into an immutable Trace. The recorder
// may keep receiving events afterwards; the returned Trace will not see
// them.
func (r *Recorder) Finalize() *Trace {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := &Trace{
		SessionID:  r.sessionID,
		DurationMS: time.Since(r.started).Milliseconds(),
		Events:     append([]Event(nil), r.events...),
		Metadata:   make(map[string]string, len(r.metadata)),
	}
	for k, v := range r.metadata {
		t.Metadata[k] = v
	}
	if r.breakdown != nil {
		b := *r.breakdown
		t.Breakdown = &b
	}
	return t
}

func (r *Recorder) offset() int64 {
	return time.Since(r.started).Milliseconds()
}

func (r *Recorder) append(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}
