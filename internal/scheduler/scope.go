package scheduler

// Scope selects the batches a run operates on. The zero value covers all batches.
type Scope struct {
	BatchID string
}

// AllBatches returns the global scope.
func AllBatches() Scope { return Scope{} }

// SingleBatch returns a scope limited to one batch.
func SingleBatch(batchID string) Scope { return Scope{BatchID: batchID} }

// IsGlobal reports whether the scope covers every batch.
func (s Scope) IsGlobal() bool { return s.BatchID == "" }

// Includes reports whether the batch falls inside the scope.
func (s Scope) Includes(batchID string) bool {
	return s.IsGlobal() || s.BatchID == batchID
}

// Kind returns "all" or "batch".
func (s Scope) Kind() string {
	if s.IsGlobal() {
		return "all"
	}
	return "batch"
}

func (s Scope) String() string {
	if s.IsGlobal() {
		return "all"
	}
	return "batch:" + s.BatchID
}
