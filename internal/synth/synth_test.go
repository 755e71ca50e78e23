package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"frame-reduction/internal/domain"
)

func testConfig(seed uint64) domain.SynthConfig {
	return domain.SynthConfig{
		Rows:         64,
		Cols:         48,
		Background:   100,
		ReadNoise:    5,
		Stars:        10,
		Impulses:     8,
		ImpulseLevel: 5000,
		Seed:         seed,
	}
}

func TestFrameShapeAndLabels(t *testing.T) {
	frame := NewGenerator(zap.NewNop(), testConfig(1)).Frame()

	require.Equal(t, 64, frame.Rows)
	require.Equal(t, 48, frame.Cols)
	require.Len(t, frame.Pixels, 64)
	require.Len(t, frame.RowCoords, 64)
	require.Len(t, frame.ColCoords, 48)
	for _, row := range frame.Pixels {
		require.Len(t, row, 48)
	}
	assert.Equal(t, "x0000", frame.ColCoords[0])
	assert.Equal(t, "x0047", frame.ColCoords[47])
}

func TestFrameDeterministicBySeed(t *testing.T) {
	a := NewGenerator(zap.NewNop(), testConfig(42)).Frame()
	b := NewGenerator(zap.NewNop(), testConfig(42)).Frame()
	c := NewGenerator(zap.NewNop(), testConfig(43)).Frame()

	assert.Equal(t, a.Pixels, b.Pixels)
	assert.NotEqual(t, a.Pixels, c.Pixels)
}

func TestFrameContainsImpulses(t *testing.T) {
	cfg := testConfig(7)
	frame := NewGenerator(zap.NewNop(), cfg).Frame()

	stats, err := frame.Stats()
	require.NoError(t, err)

	// The last stamped impulse is exactly background + level.
	assert.GreaterOrEqual(t, stats.Max, cfg.Background+cfg.ImpulseLevel)
	// The bulk of the frame sits near the background.
	assert.InDelta(t, cfg.Background, stats.Mean, cfg.Background)
}
