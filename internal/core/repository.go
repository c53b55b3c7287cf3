package core

import "sync"

// EventKind describes a repository mutation.
type EventKind string

const (
	EventUpsert EventKind = "upsert"
	EventRemove EventKind = "remove"
	EventClear  EventKind = "clear"
)

// Event is delivered to subscribers after every mutation, once the merged
// index has been rebuilt.
type Event struct {
	Kind       EventKind
	Warehouse  string
	Warehouses int
	MergedSize int
}

// WarehouseRepository holds the latest dataset for each warehouse name.
// Re-uploading a warehouse replaces its dataset in place; the merged index
// keeps warehouses in the order they were first added.
type WarehouseRepository struct {
	mu       sync.RWMutex
	order    []string
	datasets map[string]Dataset
	merged   []WarehouseRecord

	obsMu     sync.RWMutex
	observers []func(Event)
}

// NewWarehouseRepository returns an empty repository.
func NewWarehouseRepository() *WarehouseRepository {
	return &WarehouseRepository{datasets: make(map[string]Dataset)}
}

// Subscribe registers fn to be called synchronously after each mutation.
func (r *WarehouseRepository) Subscribe(fn func(Event)) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, fn)
}

// Upsert stores ds under name, replacing any previous dataset for that name.
func (r *WarehouseRepository) Upsert(name string, ds Dataset) {
	ds = ds.clone()

	r.mu.Lock()
	if _, ok := r.datasets[name]; !ok {
		r.order = append(r.order, name)
	}
	r.datasets[name] = ds
	ev := r.rebuildLocked(EventUpsert, name)
	r.mu.Unlock()

	r.notify(ev)
}

// Remove deletes the named dataset. It reports whether it existed.
func (r *WarehouseRepository) Remove(name string) bool {
	r.mu.Lock()
	if _, ok := r.datasets[name]; !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.datasets, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	ev := r.rebuildLocked(EventRemove, name)
	r.mu.Unlock()

	r.notify(ev)
	return true
}

// Clear removes every dataset.
func (r *WarehouseRepository) Clear() {
	r.mu.Lock()
	r.order = nil
	r.datasets = make(map[string]Dataset)
	ev := r.rebuildLocked(EventClear, "")
	r.mu.Unlock()

	r.notify(ev)
}

// rebuildLocked recomputes the merged index. Caller holds r.mu.
func (r *WarehouseRepository) rebuildLocked(kind EventKind, name string) Event {
	size := 0
	for _, n := range r.order {
		size += len(r.datasets[n].Records)
	}
	merged := make([]WarehouseRecord, 0, size)
	for _, n := range r.order {
		merged = append(merged, r.datasets[n].Records...)
	}
	r.merged = merged
	return Event{Kind: kind, Warehouse: name, Warehouses: len(r.order), MergedSize: size}
}

func (r *WarehouseRepository) notify(ev Event) {
	r.obsMu.RLock()
	observers := r.observers
	r.obsMu.RUnlock()

	for _, fn := range observers {
		fn(ev)
	}
}

// MergedIndex returns every record from every warehouse in insertion order.
// The returned slice is shared and must not be modified.
func (r *WarehouseRepository) MergedIndex() []WarehouseRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.merged[:len(r.merged):len(r.merged)]
}

// HighestDiscountRecord returns the record with the largest base discount.
// On ties the earliest record in the merged index wins.
func (r *WarehouseRepository) HighestDiscountRecord() (WarehouseRecord, bool) {
	return HighestDiscount(r.MergedIndex())
}

// HighestDiscount scans records for the largest base discount, keeping the
// first occurrence on ties.
func HighestDiscount(records []WarehouseRecord) (WarehouseRecord, bool) {
	if len(records) == 0 {
		return WarehouseRecord{}, false
	}
	best := records[0]
	for _, rec := range records[1:] {
		if rec.BaseDiscount > best.BaseDiscount {
			best = rec
		}
	}
	return best, true
}

// Dataset returns a copy of the named dataset.
func (r *WarehouseRepository) Dataset(name string) (Dataset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ds, ok := r.datasets[name]
	if !ok {
		return Dataset{}, false
	}
	return ds.clone(), true
}

// Len returns the number of warehouses held.
func (r *WarehouseRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Warehouses summarizes each dataset in insertion order.
func (r *WarehouseRepository) Warehouses() []WarehouseSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]WarehouseSummary, 0, len(r.order))
	for _, n := range r.order {
		ds := r.datasets[n]
		out = append(out, WarehouseSummary{
			Name:        n,
			ID:          WarehouseID(n),
			FileName:    ds.FileName,
			SheetName:   ds.SheetName,
			Records:     len(ds.Records),
			AvgDiscount: averageDiscount(ds.Records),
			UploadedAt:  ds.UploadedAt,
		})
	}
	return out
}

func averageDiscount(recs []WarehouseRecord) float64 {
	if len(recs) == 0 {
		return 0
	}
	var sum float64
	for _, r := range recs {
		sum += r.BaseDiscount
	}
	return sum / float64(len(recs))
}
