package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"phongtro/internal/repositories"
	mem "phongtro/pkg/memcache"
	"phongtro/pkg/utils"
)

// RenewalStats tracks what the scan loop did, per process lifetime. The
// renewal path is silent towards owners, so these counters are the only
// way lapses become observable.
type RenewalStats struct {
	CyclesRun         int64
	PostsScanned      int64
	Renewed           int64
	InsufficientFunds int64
	AlreadyApplied    int64
	Failed            int64
	LastRunAt         int64

	mu sync.RWMutex
}

type RenewalStatsSnapshot struct {
	CyclesRun         int64 `json:"cycles_run"`
	PostsScanned      int64 `json:"posts_scanned"`
	Renewed           int64 `json:"renewed"`
	InsufficientFunds int64 `json:"insufficient_funds"`
	AlreadyApplied    int64 `json:"already_applied"`
	Failed            int64 `json:"failed"`
	LastRunAt         int64 `json:"last_run_at"`
}

// RenewalScheduler is the one long-lived background process: a fixed
// interval loop that scans posts whose featured window is at or near its
// end and re-runs the pricing+debit path for those flagged autoRenew.
type RenewalScheduler struct {
	posts       repositories.IPostRepository
	postService PostServiceInterface
	guard       mem.RenewalGuard

	interval       time.Duration
	lookahead      time.Duration
	perPostTimeout time.Duration

	stats       RenewalStats
	stopChannel chan struct{}
	stopOnce    sync.Once
	done        chan struct{}
}

func NewRenewalScheduler(
	posts repositories.IPostRepository,
	postService PostServiceInterface,
	guard mem.RenewalGuard,
) *RenewalScheduler {
	return &RenewalScheduler{
		posts:          posts,
		postService:    postService,
		guard:          guard,
		interval:       durationFromEnv("RENEWAL_SCAN_INTERVAL", 5*time.Minute),
		lookahead:      durationFromEnv("RENEWAL_LOOKAHEAD", time.Hour),
		perPostTimeout: durationFromEnv("RENEWAL_POST_TIMEOUT", 10*time.Second),
		stopChannel:    make(chan struct{}),
		done:           make(chan struct{}),
	}
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

// Start launches the scan loop. It returns immediately; Stop drains it.
func (s *RenewalScheduler) Start(ctx context.Context) {
	go func() {
		defer close(s.done)

		log.Printf("Renewal scheduler started (interval=%s lookahead=%s)", s.interval, s.lookahead)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RunOnce(ctx)
			case <-ctx.Done():
				log.Println("Renewal scheduler stopped: context canceled")
				return
			case <-s.stopChannel:
				log.Println("Renewal scheduler stopped gracefully")
				return
			}
		}
	}()
}

// Stop ends the loop after any in-flight post finishes.
func (s *RenewalScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChannel) })
	<-s.done
}

// RunOnce performs a single scan cycle. A failure on one post never
// aborts the remaining posts in the same cycle.
func (s *RenewalScheduler) RunOnce(ctx context.Context) {
	now := utils.NowUnixSeconds()
	cutoff := now + int64(s.lookahead/time.Second)

	due, err := s.posts.ListDueForRenewal(ctx, cutoff)
	if err != nil {
		log.Printf("Renewal scan failed to list due posts: %v", err)
		return
	}

	s.stats.mu.Lock()
	s.stats.CyclesRun++
	s.stats.PostsScanned += int64(len(due))
	s.stats.LastRunAt = now
	s.stats.mu.Unlock()

	for i := range due {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChannel:
			// Graceful shutdown: skip starting new posts.
			return
		default:
		}

		post := &due[i]
		if post.FeaturedEndDate == nil {
			continue
		}

		key := fmt.Sprintf("renew:%s:%d", post.ID, *post.FeaturedEndDate)
		if !s.guard.TryBegin(key, 2*s.interval) {
			continue
		}

		s.processOne(ctx, key, post.ID)
	}
}

func (s *RenewalScheduler) processOne(ctx context.Context, guardKey string, postID uuid.UUID) {
	pctx, cancel := context.WithTimeout(ctx, s.perPostTimeout)
	defer cancel()

	err := s.postService.Renew(pctx, postID)

	s.stats.mu.Lock()
	defer s.stats.mu.Unlock()

	switch {
	case err == nil:
		s.stats.Renewed++
	case errors.Is(err, utils.ErrDuplicateReference):
		// Another process already settled this window.
		s.stats.AlreadyApplied++
	default:
		if _, ok := utils.IsInsufficientFunds(err); ok {
			// The owner keeps autoRenew on and the post lapses into the
			// expired display state; we retry silently next cycle until
			// the balance is topped up or auto renew is turned off.
			s.stats.InsufficientFunds++
			s.guard.Release(guardKey)
			log.Printf("Renewal of post %s skipped: %v", postID, err)
			return
		}
		s.stats.Failed++
		s.guard.Release(guardKey)
		log.Printf("Renewal of post %s failed: %v", postID, err)
	}
}

func (s *RenewalScheduler) Stats() RenewalStatsSnapshot {
	s.stats.mu.RLock()
	defer s.stats.mu.RUnlock()

	return RenewalStatsSnapshot{
		CyclesRun:         s.stats.CyclesRun,
		PostsScanned:      s.stats.PostsScanned,
		Renewed:           s.stats.Renewed,
		InsufficientFunds: s.stats.InsufficientFunds,
		AlreadyApplied:    s.stats.AlreadyApplied,
		Failed:            s.stats.Failed,
		LastRunAt:         s.stats.LastRunAt,
	}
}
