package utils

import (
	"sync"
	"time"
)

const (
	BATCH_SIZE    = 50
	BATCH_TIMEOUT = time.Second * 5
)

// BatchBuffer accumulates items until the limit is reached. The worker
// flushes on a full buffer, on the batch ticker, and on shutdown.
type BatchBuffer[T any] struct {
	mu    sync.Mutex
	limit int
	items []T
}

func NewBatchBuffer[T any](limit int) *BatchBuffer[T] {
	if limit <= 0 {
		limit = BATCH_SIZE
	}
	return &BatchBuffer[T]{
		limit: limit,
		items: make([]T, 0, limit),
	}
}

// Add appends the item and reports whether the buffer is now full.
func (b *BatchBuffer[T]) Add(item T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append(b.items, item)
	return len(b.items) >= b.limit
}

// Drain returns the buffered items and resets the buffer. Returns nil
// when the buffer is empty.
func (b *BatchBuffer[T]) Drain() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.items) == 0 {
		return nil
	}

	batch := b.items
	b.items = make([]T, 0, b.limit)
	return batch
}
