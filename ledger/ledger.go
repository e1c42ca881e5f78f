package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"timervid/timeline"
)

// Ledger remembers which plans have already been rendered
type Ledger interface {
	Seen(ctx context.Context, fingerprint string) (bool, error)
	Record(ctx context.Context, fingerprint, output string) error
}

// Fingerprint returns a SHA-256 hex hash of the plan and its output file name.
// Two timers that produce the same plan under the same name share a fingerprint.
func Fingerprint(plan timeline.Plan, fileName string) (string, error) {
	payload := struct {
		File string        `json:"file"`
		Plan timeline.Plan `json:"plan"`
	}{fileName, plan}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode plan: %w", err)
	}
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:]), nil
}

// MemoryLedger keeps records for the lifetime of the process
type MemoryLedger struct {
	mu      sync.RWMutex
	records map[string]string
}

// NewMemoryLedger creates an empty in-process ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{records: make(map[string]string)}
}

func (m *MemoryLedger) Seen(_ context.Context, fingerprint string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[fingerprint]
	return ok, nil
}

func (m *MemoryLedger) Record(_ context.Context, fingerprint, output string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[fingerprint] = output
	return nil
}

// Output returns the recorded output path for a fingerprint
func (m *MemoryLedger) Output(fingerprint string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out, ok := m.records[fingerprint]
	return out, ok
}

// Len is the number of recorded fingerprints
func (m *MemoryLedger) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
