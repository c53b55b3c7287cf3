package core

import "sync"

// DefaultHistoryLimit is how many committed uploads are remembered.
const DefaultHistoryLimit = 100

// uploadHistory keeps the most recent committed uploads, newest first.
type uploadHistory struct {
	mu      sync.RWMutex
	limit   int
	entries []UploadSummary
	results map[string]*UploadResult
}

func newUploadHistory(limit int) *uploadHistory {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &uploadHistory{limit: limit, results: make(map[string]*UploadResult)}
}

func (h *uploadHistory) add(res *UploadResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append([]UploadSummary{summarize(res)}, h.entries...)
	h.results[res.UploadID] = res
	for len(h.entries) > h.limit {
		last := h.entries[len(h.entries)-1]
		delete(h.results, last.UploadID)
		h.entries = h.entries[:len(h.entries)-1]
	}
}

func (h *uploadHistory) list() []UploadSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]UploadSummary, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *uploadHistory) get(id string) (*UploadResult, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	res, ok := h.results[id]
	return res, ok
}

func summarize(res *UploadResult) UploadSummary {
	return UploadSummary{
		UploadID:      res.UploadID,
		FileName:      res.FileName,
		WarehouseName: res.WarehouseName,
		Sheet:         res.Sheet,
		Stats:         res.Stats,
		ErrorCount:    len(res.Errors),
		Duration:      res.Duration,
		ProcessedAt:   res.ProcessedAt,
	}
}
