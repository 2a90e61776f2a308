package threat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCapAndOrder(t *testing.T) {
	h := NewHistory(HistoryLimit)
	for i := 0; i < 25; i++ {
		h.Add(ThreatRecord{ID: fmt.Sprintf("r%02d", i), IP: "1.1.1.1"})
		assert.LessOrEqual(t, h.Len(), HistoryLimit)
	}

	list := h.List()
	require.Len(t, list, HistoryLimit)
	assert.Equal(t, "r24", list[0].ID)
	assert.Equal(t, "r15", list[HistoryLimit-1].ID)
}

func TestHistoryReadsDoNotReorder(t *testing.T) {
	h := NewHistory(3)
	h.Add(ThreatRecord{ID: "a"})
	h.Add(ThreatRecord{ID: "b"})
	h.Add(ThreatRecord{ID: "c"})

	_, ok := h.Get("a")
	require.True(t, ok)

	h.Add(ThreatRecord{ID: "d"})
	_, ok = h.Get("a")
	assert.False(t, ok, "oldest insertion must be evicted even after a read")

	ids := []string{}
	for _, r := range h.List() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"d", "c", "b"}, ids)
}

func TestHistoryReturnsCopies(t *testing.T) {
	h := NewHistory(2)
	h.Add(ThreatRecord{ID: "a", Ports: []int{22}})

	got := h.List()
	got[0].Ports[0] = 9999

	again, ok := h.Get("a")
	require.True(t, ok)
	assert.Equal(t, []int{22}, again.Ports)
}

func TestSeenSet(t *testing.T) {
	s := NewSeenSet(100, 0.001)
	assert.True(t, s.Observe("1.1.1.1"))
	assert.False(t, s.Observe("1.1.1.1"))
	assert.True(t, s.Observe("8.8.8.8"))
	assert.Equal(t, 2, s.Distinct())
}
