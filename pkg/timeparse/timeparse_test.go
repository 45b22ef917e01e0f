package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNaiveStringsUseBusinessZone(t *testing.T) {
	cases := []string{
		"2025-03-10 14:00",
		"2025-03-10 14:00:00",
		"2025-03-10T14:00",
		"10/03/2025 14:00",
	}
	expected := time.Date(2025, time.March, 10, 14, 0, 0, 0, Zone())
	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			got, err := Normalize(input)
			require.NoError(t, err)
			assert.True(t, got.Equal(expected), "got %s", got)
			// 14:00 em UTC-3 é 17:00 UTC, independente do fuso da máquina.
			assert.Equal(t, 17, got.UTC().Hour())
		})
	}
}

func TestNormalizeZonedStringsAreLiteral(t *testing.T) {
	got, err := Normalize("2025-03-10T14:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 14, got.UTC().Hour())

	got, err = Normalize("2025-03-10T14:00:00-03:00")
	require.NoError(t, err)
	assert.Equal(t, 17, got.UTC().Hour())
}

func TestNormalizeDateOnly(t *testing.T) {
	got, err := Normalize("2025-03-10")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, time.March, 10, 0, 0, 0, 0, Zone())))

	got, err = Normalize("10/03/2025")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, time.March, 10, 0, 0, 0, 0, Zone())))
}

func TestNormalizeTimeValuesPassThrough(t *testing.T) {
	instant := time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)

	got, err := Normalize(instant)
	require.NoError(t, err)
	assert.True(t, got.Equal(instant))

	got, err = Normalize(&instant)
	require.NoError(t, err)
	assert.True(t, got.Equal(instant))
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	for _, input := range []any{"", "   ", "quando der", "32/13/2025 99:99", nil, 42, time.Time{}, (*time.Time)(nil)} {
		_, err := Normalize(input)
		assert.ErrorIs(t, err, ErrUnparseable, "entrada: %v", input)
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	first, err := Normalize("2025-03-10 14:00")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Normalize("2025-03-10 14:00")
		require.NoError(t, err)
		assert.True(t, again.Equal(first))
	}
}

func TestSetZoneOffsetChangesNaiveInterpretation(t *testing.T) {
	defer SetZoneOffset(-3)

	SetZoneOffset(-5)
	got, err := Normalize("2025-03-10 14:00")
	require.NoError(t, err)
	assert.Equal(t, 19, got.UTC().Hour())

	// Entrada com offset explícito não é afetada.
	got, err = Normalize("2025-03-10T14:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 14, got.UTC().Hour())
}

func TestInBusinessZone(t *testing.T) {
	utc := time.Date(2025, time.March, 10, 17, 0, 0, 0, time.UTC)
	local := InBusinessZone(utc)
	assert.Equal(t, 14, local.Hour())
	assert.True(t, local.Equal(utc), "mesmo instante, outra representação")
}
