package utils

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgressBar(t *testing.T) {
	t.Run("determinate progress bar with known total", func(t *testing.T) {
		var buf bytes.Buffer
		bar := NewProgressBar(100, DescSyncing, &buf)
		require.NotNil(t, bar)
	})

	t.Run("indeterminate progress bar with unknown total", func(t *testing.T) {
		var buf bytes.Buffer
		bar := NewProgressBar(-1, DescListing, &buf)
		require.NotNil(t, bar)
	})

	t.Run("zero total", func(t *testing.T) {
		var buf bytes.Buffer
		bar := NewProgressBar(0, DescSyncing, &buf)
		require.NotNil(t, bar)
	})
}

func TestProgressBarDescriptions(t *testing.T) {
	assert.Equal(t, "Syncing", DescSyncing)
	assert.Equal(t, "Listing", DescListing)
}

func TestProgress_Done(t *testing.T) {
	p := NewProgress(3)

	completed, total := p.Snapshot()
	assert.Equal(t, 0, completed)
	assert.Equal(t, 3, total)
	assert.False(t, p.Drained())

	for i := 1; i <= 3; i++ {
		completed, total = p.Done()
		assert.Equal(t, i, completed)
		assert.Equal(t, 3, total)
	}
	assert.True(t, p.Drained())
}

func TestProgress_ConcurrentDone(t *testing.T) {
	const total = 500
	p := NewProgress(total)

	seen := make([]bool, total+1)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			completed, _ := p.Done()
			mu.Lock()
			seen[completed] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	// every value 1..total was handed out exactly once
	for i := 1; i <= total; i++ {
		assert.True(t, seen[i], "count %d missing", i)
	}
	assert.True(t, p.Drained())
}

func TestProgress_WithBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(2, DescSyncing, &buf)
	p := NewProgress(2).WithBar(bar)

	p.Done()
	p.Done()
	p.Finish()

	assert.True(t, p.Drained())
	assert.Equal(t, int64(2), bar.State().CurrentNum)
}

func TestProgress_EmptyBatchIsDrained(t *testing.T) {
	p := NewProgress(0)
	assert.True(t, p.Drained())
	p.Finish()
}
