// Package media handles attachment bytes: MIME checks, data URL encoding,
// the voice recorder state machine and the single audio playback slot.
package media
