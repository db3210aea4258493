package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aristath/advisor-engine/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() zerolog.Logger {
	return logger.New(logger.Config{Level: "error", Pretty: false})
}

func TestDefault_IsValid(t *testing.T) {
	snap := Default()
	require.NotNil(t, snap)

	_, ok := snap.Regime(RegimeNeutral)
	assert.True(t, ok)
	assert.Equal(t, "", snap.Hash())

	for id, base := range snap.Allocation.Base {
		assert.Equal(t, 100, base.Sum(), "base allocation %s", id)
	}
	for _, key := range GuardrailKeys {
		_, ok := snap.BaseGuardrails[key]
		assert.True(t, ok, "missing base guardrail %s", key)
		_, ok = snap.Clamps[key]
		assert.True(t, ok, "missing clamp %s", key)
	}
}

func TestLoadBytes_EmptyFileKeepsDefaults(t *testing.T) {
	l := NewLoader(testLog())

	snap, err := l.LoadBytes([]byte(""))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.BaseGuardrails, snap.BaseGuardrails)
	assert.Equal(t, def.Allocation, snap.Allocation)
	assert.Len(t, snap.Router.Profiles, len(def.Router.Profiles))
	assert.NotEmpty(t, snap.Hash())
}

func TestLoadBytes_SectionOverride(t *testing.T) {
	l := NewLoader(testLog())

	raw := []byte(`
base_guardrails:
  min_cash: 0.10
allocation:
  amplitude: 30
  base:
    crisis:
      stocks: 10
      bonds: 30
      gold: 20
      cash: 40
`)
	snap, err := l.LoadBytes(raw)
	require.NoError(t, err)

	assert.Equal(t, 0.10, snap.BaseGuardrails[KeyMinCash])
	// Untouched keys keep their defaults.
	assert.Equal(t, 1.0, snap.BaseGuardrails[KeyRiskMultiplier])
	assert.Equal(t, 30.0, snap.Allocation.Amplitude)
	assert.Equal(t, BaseAllocation{Stocks: 10, Bonds: 30, Gold: 20, Cash: 40}, snap.Allocation.Base["crisis"])
	// Other regimes keep their default bases.
	assert.Equal(t, BaseAllocation{Stocks: 50, Bonds: 25, Gold: 10, Cash: 15}, snap.Allocation.Base[RegimeNeutral])
}

func TestLoadBytes_RejectsInvalidComparator(t *testing.T) {
	l := NewLoader(testLog())

	raw := []byte(`
regimes:
  - id: neutral
    label: Neutral
    rules:
      - feature: vix
        comparator: "<>"
        threshold: 30
        weight: 1.0
`)
	_, err := l.LoadBytes(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid comparator")
}

func TestLoadBytes_RejectsBadBaseSum(t *testing.T) {
	l := NewLoader(testLog())

	raw := []byte(`
allocation:
  base:
    neutral:
      stocks: 50
      bonds: 25
      gold: 10
      cash: 10
`)
	_, err := l.LoadBytes(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sums to 95")
}

func TestLoadBytes_RejectsMissingNeutralRegime(t *testing.T) {
	l := NewLoader(testLog())

	raw := []byte(`
regimes:
  - id: crisis
    label: Crisis
    rules:
      - feature: vix
        comparator: ">"
        threshold: 40
        weight: 1.0
`)
	_, err := l.LoadBytes(raw)
	require.Error(t, err)
}

func TestLoadBytes_RejectsInvertedClamp(t *testing.T) {
	l := NewLoader(testLog())

	raw := []byte(`
clamps:
  min_cash:
    min: 0.50
    max: 0.10
`)
	_, err := l.LoadBytes(raw)
	require.Error(t, err)
}

func TestLoadBytes_RejectsMalformedYAML(t *testing.T) {
	l := NewLoader(testLog())

	_, err := l.LoadBytes([]byte("regimes: [unterminated"))
	require.Error(t, err)
}

func TestLoadFile_HashChangesWithContent(t *testing.T) {
	l := NewLoader(testLog())
	dir := t.TempDir()

	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_guardrails:\n  min_cash: 0.10\n"), 0o644))
	first, err := l.LoadFile(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("base_guardrails:\n  min_cash: 0.12\n"), 0o644))
	second, err := l.LoadFile(path)
	require.NoError(t, err)

	assert.NotEqual(t, first.Hash(), second.Hash())
}

func TestLoadFile_MissingFile(t *testing.T) {
	l := NewLoader(testLog())

	_, err := l.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
