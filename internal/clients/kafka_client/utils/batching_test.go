package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchBufferReportsFull(t *testing.T) {
	buffer := NewBatchBuffer[int](3)

	assert.False(t, buffer.Add(1))
	assert.False(t, buffer.Add(2))
	assert.True(t, buffer.Add(3))
}

func TestBatchBufferDrainResets(t *testing.T) {
	buffer := NewBatchBuffer[string](2)
	buffer.Add("a")
	buffer.Add("b")

	assert.Equal(t, []string{"a", "b"}, buffer.Drain())
	assert.Nil(t, buffer.Drain())
}

func TestBatchBufferDefaultLimit(t *testing.T) {
	buffer := NewBatchBuffer[int](0)

	full := false
	for i := 0; i < BATCH_SIZE; i++ {
		full = buffer.Add(i)
	}
	assert.True(t, full)
	assert.Len(t, buffer.Drain(), BATCH_SIZE)
}
