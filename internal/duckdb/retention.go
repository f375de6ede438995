package duckdb

import (
	"log"
	"sync"
	"time"
)

// RetentionConfig holds configuration for the retention cleaner.
type RetentionConfig struct {
	RetentionDays int
	Interval      time.Duration
}

// RetentionCleaner periodically deletes decisions older than the retention
// period.
type RetentionCleaner struct {
	store    *Store
	maxAge   time.Duration
	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewRetentionCleaner starts a cleaner. It returns nil when RetentionDays is
// zero or negative.
func NewRetentionCleaner(store *Store, cfg RetentionConfig) *RetentionCleaner {
	if cfg.RetentionDays <= 0 {
		return nil
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}

	rc := &RetentionCleaner{
		store:    store,
		maxAge:   time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		interval: cfg.Interval,
		done:     make(chan struct{}),
	}

	// Catch up after downtime.
	rc.cleanup()

	rc.wg.Add(1)
	go rc.loop()
	return rc
}

func (rc *RetentionCleaner) loop() {
	defer rc.wg.Done()
	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rc.cleanup()
		case <-rc.done:
			return
		}
	}
}

func (rc *RetentionCleaner) cleanup() {
	rows, err := rc.store.DeleteBefore(time.Now().Add(-rc.maxAge))
	if err != nil {
		log.Printf("duckdb: retention cleanup error: %v", err)
		return
	}
	if rows > 0 {
		log.Printf("duckdb: retention cleanup deleted %d decisions older than %s", rows, rc.maxAge)
	}
}

// Stop signals the cleaner to stop and waits for it to finish.
func (rc *RetentionCleaner) Stop() {
	rc.stopOnce.Do(func() {
		close(rc.done)
		rc.wg.Wait()
	})
}
