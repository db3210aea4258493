package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Store publishes the current policy snapshot behind an atomic pointer.
// Readers call Current once per evaluation and keep using that snapshot for the
// whole call; Reload builds a brand-new snapshot and swaps the pointer, so
// in-flight evaluations are never affected by a reload.
type Store struct {
	current atomic.Pointer[Snapshot]
	loader  *Loader
	path    string
	log     zerolog.Logger
}

// NewStore loads the initial snapshot and returns a store publishing it.
// An empty path means the baked-in defaults are used and Reload is a no-op.
func NewStore(path string, log zerolog.Logger) (*Store, error) {
	s := &Store{
		loader: NewLoader(log),
		path:   path,
		log:    log.With().Str("component", "policy_store").Logger(),
	}

	var snap *Snapshot
	if path == "" {
		snap = Default()
		s.log.Info().Msg("No policy file configured, using built-in defaults")
	} else {
		var err error
		snap, err = s.loader.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load policy: %w", err)
		}
	}

	s.current.Store(snap)
	return s, nil
}

// Current returns the active snapshot. The returned value is immutable.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload re-reads the policy file and swaps in a new snapshot if its content
// hash changed. Returns true when a swap happened.
func (s *Store) Reload() (bool, error) {
	if s.path == "" {
		return false, nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return false, fmt.Errorf("failed to read policy file: %w", err)
	}

	sum := sha256.Sum256(raw)
	hash := hex.EncodeToString(sum[:])
	if hash == s.Current().Hash() {
		return false, nil
	}

	snap, err := s.loader.LoadBytes(raw)
	if err != nil {
		// A corrupt edit must not take down a running process; keep serving
		// the previous snapshot.
		return false, fmt.Errorf("policy reload rejected: %w", err)
	}

	s.current.Store(snap)
	s.log.Info().
		Str("hash", snap.Hash()[:12]).
		Msg("Policy snapshot swapped")

	return true, nil
}
