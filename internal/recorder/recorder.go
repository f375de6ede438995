// Package recorder moves swipe decisions from the UI into durable storage.
// Record never blocks the caller; a background loop journals each decision,
// batches inserts into the store and commits the journal once a batch is
// persisted.
package recorder

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/tinytelemetry/swipedeck/internal/journal"
	"github.com/tinytelemetry/swipedeck/internal/model"
)

const (
	defaultBatchSize     = 64
	defaultQueueSize     = 256
	defaultFlushInterval = model.DefaultFlushInterval
)

type durableJournal interface {
	Append(d model.Decision) (uint64, error)
	Commit(seq uint64) error
	Replay(fn func(d model.Decision) error) error
}

// Config holds tunable parameters for a Recorder.
type Config struct {
	BatchSize     int
	QueueSize     int
	FlushInterval time.Duration
	Journal       *journal.Journal
}

// Recorder persists decisions asynchronously.
type Recorder struct {
	store         model.DecisionWriter
	journal       durableJournal
	in            chan model.Decision
	pending       []model.Decision
	maxBatch      int
	flushInterval time.Duration

	recorded atomic.Int64
	dropped  atomic.Int64
}

// New creates a recorder writing to store. Call Run to start it.
func New(store model.DecisionWriter, cfg Config) *Recorder {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaultFlushInterval
	}
	r := &Recorder{
		store:         store,
		in:            make(chan model.Decision, cfg.QueueSize),
		pending:       make([]model.Decision, 0, cfg.BatchSize),
		maxBatch:      cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
	}
	if cfg.Journal != nil {
		r.journal = cfg.Journal
	}
	return r
}

// Record queues d for persistence. It returns false, and counts the drop,
// when the queue is full.
func (r *Recorder) Record(d model.Decision) bool {
	select {
	case r.in <- d:
		return true
	default:
		r.dropped.Add(1)
		log.Printf("recorder: queue full, dropped decision for card %s", d.CardID)
		return false
	}
}

// Recorded returns how many decisions have been persisted.
func (r *Recorder) Recorded() int64 { return r.recorded.Load() }

// Dropped returns how many decisions were rejected by Record.
func (r *Recorder) Dropped() int64 { return r.dropped.Load() }

// ReplayJournal writes uncommitted journal entries to the store and commits
// them. It must run before Run.
func (r *Recorder) ReplayJournal() (int, error) {
	if r.journal == nil {
		return 0, nil
	}
	var batch []model.Decision
	if err := r.journal.Replay(func(d model.Decision) error {
		batch = append(batch, d)
		return nil
	}); err != nil {
		return 0, fmt.Errorf("recorder: replay journal: %w", err)
	}
	if len(batch) == 0 {
		return 0, nil
	}
	if err := r.store.InsertDecisions(batch); err != nil {
		return 0, fmt.Errorf("recorder: replay insert: %w", err)
	}
	if err := r.journal.Commit(batch[len(batch)-1].Seq); err != nil {
		return 0, fmt.Errorf("recorder: replay commit: %w", err)
	}
	return len(batch), nil
}

// Run persists queued decisions until ctx is done, then drains the queue and
// flushes what is left.
func (r *Recorder) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case d := <-r.in:
			r.accept(d)
			if len(r.pending) >= r.maxBatch {
				r.flush()
			}
		case <-ticker.C:
			r.flush()
		case <-ctx.Done():
			for {
				select {
				case d := <-r.in:
					r.accept(d)
				default:
					r.flush()
					return nil
				}
			}
		}
	}
}

func (r *Recorder) accept(d model.Decision) {
	if r.journal != nil {
		seq, err := r.journal.Append(d)
		if err != nil {
			log.Printf("recorder: journal append failed for card %s: %v", d.CardID, err)
		} else {
			d.Seq = seq
		}
	}
	r.pending = append(r.pending, d)
}

func (r *Recorder) flush() {
	if len(r.pending) == 0 {
		return
	}
	batch := r.pending
	if err := r.store.InsertDecisions(batch); err != nil {
		// Keep the batch for the next tick; the journal still holds it.
		log.Printf("recorder: insert %d decisions: %v", len(batch), err)
		return
	}
	r.recorded.Add(int64(len(batch)))
	r.pending = make([]model.Decision, 0, r.maxBatch)

	if r.journal == nil {
		return
	}
	var maxSeq uint64
	for _, d := range batch {
		maxSeq = max(maxSeq, d.Seq)
	}
	if maxSeq == 0 {
		return
	}
	if err := r.journal.Commit(maxSeq); err != nil {
		log.Printf("recorder: journal commit %d: %v", maxSeq, err)
	}
}
