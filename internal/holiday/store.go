package holiday

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FixedKey is the identifier-store key used for a fixed holiday's single
// long-running yearly rule.
const FixedKey = "uid"

// Store is the persisted key→identifier map of one holiday definition.
// Keys the compiler does not recognize are round-tripped unchanged; entries
// are never deleted, so identifiers survive regenerations even when the
// compression shape that produced them disappears.
type Store map[string]string

// Generator mints a fresh opaque identifier. Production code uses NewUUID;
// tests inject a deterministic generator.
type Generator func() string

// NewUUID is the default Generator, producing random (version 4) UUIDs.
var NewUUID Generator = uuid.NewString

// GetOrCreate returns the identifier stored under key, minting one via gen
// and recording it if the key is absent. An existing identifier is never
// regenerated.
func (s Store) GetOrCreate(key string, gen Generator) string {
	if id, ok := s[key]; ok {
		return id
	}
	id := gen()
	s[key] = id
	return id
}

// RuleKey builds the identifier-store key for a compressed movable rule.
// Identity depends on the shape of the compression (month, day, start year,
// interval), not on its discovery order, so an unchanged year set keeps the
// same identifiers run-to-run.
func RuleKey(month time.Month, day, startYear, interval int) string {
	return fmt.Sprintf("%02d%02d_%d_%d", int(month), day, startYear, interval)
}
