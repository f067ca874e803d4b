package steps

import (
	"hash/fnv"
	"sort"

	"cleanplate/internal/profile"
)

// Step tracks one output's sensitivity to the profile. MarkComputed must
// only be called after the output was produced successfully; a failed stage
// stays stale and runs again next time.
type Step struct {
	description  string
	trackedKeys  []string
	trackAll     bool
	lastChecksum uint64
	computed     bool
}

// NewStep builds a tracker sensitive to the given snapshot keys. The keys
// are copied, deduplicated, and sorted; the caller's slice stays untouched.
func NewStep(description string, keys ...string) *Step {
	seen := make(map[string]struct{}, len(keys))
	tracked := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tracked = append(tracked, key)
	}
	sort.Strings(tracked)
	return &Step{description: description, trackedKeys: tracked}
}

// NewStepTrackingAll builds a tracker sensitive to every snapshot key,
// for outputs that must be redone on any profile change.
func NewStepTrackingAll(description string) *Step {
	return &Step{description: description, trackAll: true}
}

// Description returns the human-readable purpose of the output.
func (s *Step) Description() string {
	return s.description
}

// TracksAll reports whether the step is sensitive to every profile field.
func (s *Step) TracksAll() bool {
	return s.trackAll
}

// TrackedKeys returns a copy of the tracked key set, sorted. Empty for
// steps tracking all fields.
func (s *Step) TrackedKeys() []string {
	out := make([]string, len(s.trackedKeys))
	copy(out, s.trackedKeys)
	return out
}

// Fingerprint hashes the step's tracked slice of the snapshot.
func (s *Step) Fingerprint(snap profile.Snapshot) uint64 {
	if s.trackAll {
		return Fingerprint(snap, snap.Keys())
	}
	return Fingerprint(snap, s.trackedKeys)
}

// IsStale reports whether the output must be recomputed: either it never
// completed or a tracked profile field changed since it did.
func (s *Step) IsStale(snap profile.Snapshot) bool {
	if !s.computed {
		return true
	}
	return s.Fingerprint(snap) != s.lastChecksum
}

// MarkComputed records the current fingerprint as the state the output was
// produced under.
func (s *Step) MarkComputed(snap profile.Snapshot) {
	s.lastChecksum = s.Fingerprint(snap)
	s.computed = true
}

// Restore seeds the tracker with a checksum persisted by a previous run.
func (s *Step) Restore(checksum uint64) {
	s.lastChecksum = checksum
	s.computed = true
}

// Checksum returns the stored checksum and whether one exists.
func (s *Step) Checksum() (uint64, bool) {
	return s.lastChecksum, s.computed
}

// Fingerprint hashes the named snapshot keys with FNV-1a in canonical
// (sorted) order. Keys absent from the snapshot contribute nothing; winding
// up with zero present keys is fine and hashes to the FNV offset basis.
// The function is total: it never fails, whatever the inputs.
func Fingerprint(snap profile.Snapshot, keys []string) uint64 {
	ordered := make([]string, len(keys))
	copy(ordered, keys)
	sort.Strings(ordered)

	h := fnv.New64a()
	for _, key := range ordered {
		value, ok := snap.Value(key)
		if !ok {
			continue
		}
		h.Write([]byte(key))
		h.Write([]byte{0})
		h.Write([]byte(value))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
