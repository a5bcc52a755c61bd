// Package diary owns the entry lifecycle: it validates drafts, writes the
// attachments and the entry in a fixed order, and keeps the newest-first
// in-memory list the presentation layer renders from.
//
// # Submission states
//
//	Idle -> Validating -> Persisting -> Committed
//	             |             |
//	             +-> Rejected <+
//
// Pending photos and the pending recording survive a failed submission so
// the user can retry without losing them.
package diary
