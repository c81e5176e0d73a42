package lap

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Tracker is one tracking session over a detection table. It owns the
// table for the duration of the session and relabels it in place: a
// forward Track pass links consecutive frames, and CloseMergeSplit
// resolves gaps between the resulting segments.
type Tracker struct {
	table     *Table
	cfg       Config
	dist      DistanceFunc
	predictor Predictor
	gen       *labelGenerator
	log       *slog.Logger
	sessionID uuid.UUID
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithDistanceFunc replaces the default squared-displacement transform.
func WithDistanceFunc(dist DistanceFunc) Option {
	return func(tr *Tracker) {
		tr.dist = dist
	}
}

// WithPredictor replaces the default regression position predictor.
func WithPredictor(p Predictor) Option {
	return func(tr *Tracker) {
		tr.predictor = p
	}
}

// WithLogger sets the session logger.
func WithLogger(log *slog.Logger) Option {
	return func(tr *Tracker) {
		tr.log = log
	}
}

// New creates a tracking session for the given table and configuration.
func New(table *Table, cfg Config, options ...Option) (*Tracker, error) {
	if table == nil {
		return nil, errors.New("nil detection table")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid tracking configuration")
	}
	tr := &Tracker{
		table:     table,
		cfg:       cfg,
		dist:      SquaredDiff,
		predictor: NewRegressionPredictor(cfg.Sigma, cfg.Predictor),
		gen:       newLabelGenerator(table.MaxLabel()),
		log:       slog.Default(),
		sessionID: uuid.New(),
	}
	for _, option := range options {
		option(tr)
	}
	tr.log = tr.log.With("session", tr.sessionID.String())
	return tr, nil
}

// Table returns the session's detection table.
func (tr *Tracker) Table() *Table {
	return tr.table
}

// Track runs the forward linking pass: one frame-linking step per pair of
// consecutive time points, in increasing time order. Steps are strictly
// sequential; each one reads the committed labels of the previous one.
// The relabeling is committed to the table when the pass completes.
func (tr *Tracker) Track() error {
	times := tr.table.Times()
	tr.log.Debug("lap: linking frames", "frames", len(times), "predict", tr.cfg.Predict)

	tr.table.BeginRelink()
	for i := 0; i+1 < len(times); i++ {
		if err := tr.linkStep(times[i], times[i+1]); err != nil {
			return errors.Wrapf(err, "can't link frames t=%v and t=%v", times[i], times[i+1])
		}
	}
	tr.table.Commit()
	return nil
}

// ReverseTrack reverses the table's time axis so the linking pass can be
// run in the backward temporal direction.
func (tr *Tracker) ReverseTrack() {
	tr.table.ReverseTime()
}

// RemoveShorts drops every track with fewer than minLength detections and
// returns the number of detections removed.
func (tr *Tracker) RemoveShorts(minLength int) int {
	removed := tr.table.RemoveShorts(minLength)
	if removed > 0 {
		tr.log.Debug("lap: removed short tracks", "detections", removed, "min_length", minLength)
	}
	return removed
}
