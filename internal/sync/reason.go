package sync

// Reason is the outcome of a refresh check
type Reason int

const (
	// ReasonUpToDate means every source hash matches the loaded snapshot
	ReasonUpToDate Reason = iota

	// ReasonNotLoaded means no snapshot has been loaded yet
	ReasonNotLoaded

	// ReasonSourceDataChanged means at least one source hash differs
	ReasonSourceDataChanged

	// ReasonErrorCheckingChanges means a hash could not be read; reload anyway
	ReasonErrorCheckingChanges
)

// ShouldReload reports whether the catalog should be reloaded
func (r Reason) ShouldReload() bool {
	return r != ReasonUpToDate
}

func (r Reason) String() string {
	switch r {
	case ReasonUpToDate:
		return "up-to-date"
	case ReasonNotLoaded:
		return "not-loaded"
	case ReasonSourceDataChanged:
		return "source-data-changed"
	case ReasonErrorCheckingChanges:
		return "error-checking-changes"
	default:
		return "unknown"
	}
}
