// Package batch implements the shared-scan batch scheduler (spec §4.5):
// clients open a batch, submit a sequence of selects, then close the batch to
// execute. Adjacent selects sharing a base/position vector are fused into one
// physical tiled pass; buckets of comparators run across a bounded worker
// pool, each worker owning private result buffers.
package batch

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hareesh108/haruDB/internal/engine"
	"github.com/Hareesh108/haruDB/internal/exec"
	"github.com/Hareesh108/haruDB/internal/session"
)

// job is one pending select within an open batch.
type job struct {
	handle string
	cmp    *engine.Comparator
}

// Batch accumulates selects between an open and a close/execute (spec §4.5).
type Batch struct {
	Log zerolog.Logger

	jobs             []job
	maxSharedPerPass int
	maxSelectThreads int
	maxJobs          int
}

// New creates an empty batch. maxSharedPerPass bounds how many comparators
// may be fused into one bucket (tunable, spec §4.5; the source's own default
// of 1 disables fusion). maxSelectThreads bounds the worker pool.
func New(maxSharedPerPass, maxSelectThreads int) *Batch {
	if maxSharedPerPass < 1 {
		maxSharedPerPass = 1
	}
	if maxSelectThreads < 1 {
		maxSelectThreads = 1
	}
	return &Batch{
		Log:              log.Logger,
		maxSharedPerPass: maxSharedPerPass,
		maxSelectThreads: maxSelectThreads,
		maxJobs:          engine.DefaultMaxSelectsInBatch,
	}
}

// Add queues a select under handle, to run when Execute is called.
func (b *Batch) Add(handle string, cmp *engine.Comparator) error {
	if len(b.jobs) >= b.maxJobs {
		return fmt.Errorf("batch: exceeded %d queued selects", b.maxJobs)
	}
	b.jobs = append(b.jobs, job{handle: handle, cmp: cmp})
	return nil
}

// Len reports the number of queued selects.
func (b *Batch) Len() int {
	return len(b.jobs)
}

// Execute runs every queued select and installs each result into ctx under
// its handle, then clears the batch. Buckets run concurrently across up to
// maxSelectThreads workers; installation into ctx is serialized by ctx's own
// mutex (spec §4.8), so ordering between buckets is unobserved by design
// (spec §5's "installation into the context may be in any order").
func (b *Batch) Execute(ctx *session.Context) {
	start := time.Now()
	buckets := b.groupIntoBuckets()
	jobCount := len(b.jobs)
	b.jobs = nil

	var wg sync.WaitGroup
	sem := make(chan struct{}, b.maxSelectThreads)

	for _, bucket := range buckets {
		bucket := bucket
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			waveStart := time.Now()
			results := runBucket(bucket)
			for i, j := range bucket {
				ctx.Put(j.handle, results[i])
			}
			b.Log.Debug().
				Str("component", "batch").
				Int("bucket_size", len(bucket)).
				Dur("elapsed", time.Since(waveStart)).
				Msg("shared-scan wave complete")
		}()
	}
	wg.Wait()

	b.Log.Info().
		Str("component", "batch").
		Int("queries", jobCount).
		Int("buckets", len(buckets)).
		Dur("elapsed", time.Since(start)).
		Msg("batch executed")
}

// groupIntoBuckets partitions queued jobs into runs of up to
// maxSharedPerPass comparators that share an identical base and position
// vector, preserving queue order. Consecutive same-base jobs beyond the cap
// start a new bucket (spec §4.5 "buckets of up to MAX_SHARED_PER_PASS").
func (b *Batch) groupIntoBuckets() [][]job {
	var buckets [][]job
	var current []job

	for _, j := range b.jobs {
		if len(current) == 0 {
			current = []job{j}
			continue
		}
		if len(current) < b.maxSharedPerPass && sameBase(current[0].cmp, j.cmp) {
			current = append(current, j)
			continue
		}
		buckets = append(buckets, current)
		current = []job{j}
	}
	if len(current) > 0 {
		buckets = append(buckets, current)
	}
	return buckets
}

func sameBase(a, b *engine.Comparator) bool {
	if a.BaseColumn != b.BaseColumn || a.BaseVector != b.BaseVector {
		return false
	}
	return a.PosColumn == b.PosColumn && a.PosVector == b.PosVector
}

// runBucket evaluates every comparator in bucket over the shared base, tile
// by tile, so each SelectVectorSize-wide tile is read once and stays
// cache-hot across the bucket's comparators (spec §4.5).
func runBucket(bucket []job) []*engine.Vector {
	base := bucket[0].cmp.BaseSlice()
	var pos []int32
	if bucket[0].cmp.HasPositionVector() {
		pos = bucket[0].cmp.PosSlice()
	}

	n := len(base)
	results := make([][]int32, len(bucket))
	for tileStart := 0; tileStart < n; tileStart += engine.SelectVectorSize {
		tileEnd := min(tileStart+engine.SelectVectorSize, n)
		for i, j := range bucket {
			exec.MatchTile(j.cmp, base, pos, tileStart, tileEnd, &results[i])
		}
	}

	out := make([]*engine.Vector, len(bucket))
	for i, r := range results {
		out[i] = engine.NewIntVector(r)
	}
	return out
}
