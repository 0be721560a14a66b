package service

import (
	"context"
	"log"
	"time"
)

// SlotJanitorConfig holds settings for the idle slot janitor.
type SlotJanitorConfig struct {
	Interval time.Duration
	IdleTTL  time.Duration
}

// SlotJanitor periodically evicts live upload slots that have been idle longer than IdleTTL.
type SlotJanitor struct {
	uploads UploadService
	cfg     SlotJanitorConfig
	now     func() time.Time
}

// NewSlotJanitor creates a new SlotJanitor. A zero Interval defaults to a quarter of IdleTTL.
func NewSlotJanitor(uploads UploadService, cfg SlotJanitorConfig) *SlotJanitor {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.Interval <= 0 {
		cfg.Interval = cfg.IdleTTL / 4
	}
	return &SlotJanitor{uploads: uploads, cfg: cfg, now: time.Now}
}

// Start runs the sweep loop until ctx is canceled.
func (j *SlotJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	log.Printf("slotJanitor: started (interval=%s, idleTTL=%s)", j.cfg.Interval, j.cfg.IdleTTL)

	for {
		select {
		case <-ctx.Done():
			log.Printf("slotJanitor: shutdown complete")
			return
		case <-ticker.C:
			j.RunOnce()
		}
	}
}

// RunOnce evicts the slots idle at this moment.
func (j *SlotJanitor) RunOnce() int {
	n := j.uploads.Sweep(j.now().Add(-j.cfg.IdleTTL))
	if n > 0 {
		log.Printf("slotJanitor: evicted %d idle slots", n)
	}
	return n
}
