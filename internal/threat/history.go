package threat

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// HistoryLimit is the number of recent records kept.
const HistoryLimit = 10

// History keeps the most recent records, evicting in insertion order. Reads
// use Peek so lookups never change eviction order.
type History struct {
	entries *lru.Cache[string, ThreatRecord]
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = HistoryLimit
	}
	entries, err := lru.New[string, ThreatRecord](limit)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &History{entries: entries}
}

// Add stores rec as the newest entry, dropping the oldest past the limit.
func (h *History) Add(rec ThreatRecord) {
	h.entries.Add(rec.ID, rec.clone())
}

// List returns copies of all records, newest first.
func (h *History) List() []ThreatRecord {
	keys := h.entries.Keys()
	out := make([]ThreatRecord, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if rec, ok := h.entries.Peek(keys[i]); ok {
			out = append(out, rec.clone())
		}
	}
	return out
}

func (h *History) Get(id string) (ThreatRecord, bool) {
	rec, ok := h.entries.Peek(id)
	if !ok {
		return ThreatRecord{}, false
	}
	return rec.clone(), true
}

func (h *History) Len() int { return h.entries.Len() }
