package poller

// dedup suppresses resending the exact message that went out last.
// The rendered message string is the equality key.
type dedup struct {
	last string
}

func (d *dedup) ShouldSend(msg string) bool { return msg != d.last }

// MarkSent records msg. Call only after a successful send, so a failed
// delivery stays eligible for the next cycle.
func (d *dedup) MarkSent(msg string) { d.last = msg }

// Clear resets suppression. The poller calls it only at the end of a
// successful cycle that had nothing to report; a dedup entry never outlives
// a quiet cycle.
func (d *dedup) Clear() { d.last = "" }
