package dedup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Capacity())
	assert.Equal(t, DefaultCapacity, New(-5).Capacity())
	assert.Equal(t, 10, New(10).Capacity())
}

func TestCache_Seen(t *testing.T) {
	c := New(10)

	assert.False(t, c.Seen("a"), "first sighting")
	assert.True(t, c.Seen("a"), "second sighting")
	assert.False(t, c.Seen("b"))
	assert.Equal(t, 2, c.Len())
}

func TestCache_EvictsInInsertionOrder(t *testing.T) {
	c := New(3)

	c.Seen("a")
	c.Seen("b")
	c.Seen("c")

	// A repeat sighting must not refresh "a".
	assert.True(t, c.Seen("a"))

	c.Seen("d")

	assert.False(t, c.Contains("a"), "oldest id should be evicted")
	assert.True(t, c.Contains("b"))
	assert.True(t, c.Contains("c"))
	assert.True(t, c.Contains("d"))
	assert.Equal(t, 3, c.Len())
}

func TestCache_EvictedIDAcceptedAgain(t *testing.T) {
	c := New(DefaultCapacity)

	for i := 0; i <= DefaultCapacity; i++ {
		assert.False(t, c.Seen(fmt.Sprintf("msg-%d", i)))
	}

	assert.Equal(t, DefaultCapacity, c.Len())
	assert.False(t, c.Seen("msg-0"), "evicted id should be accepted again")
	assert.True(t, c.Seen(fmt.Sprintf("msg-%d", DefaultCapacity)))
}
