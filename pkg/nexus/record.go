package nexus

// Record is the named-value set passed to and returned from a node's
// behavior during one run. Values are numeric-only. A name absent from
// an output record means "unchanged", never "cleared to empty"; presence
// is therefore significant and tested with Has.
type Record map[string]float64

// NewRecord returns an empty record.
func NewRecord() Record {
	return make(Record)
}

// Get returns the value stored under name and whether it is present.
func (r Record) Get(name string) (float64, bool) {
	v, ok := r[name]
	return v, ok
}

// Set stores a value under name.
func (r Record) Set(name string, v float64) {
	r[name] = v
}

// Has reports whether a value is present under name.
func (r Record) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
