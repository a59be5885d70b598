package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArch(t *testing.T) {
	t.Parallel()

	for _, a := range Archs() {
		parsed, err := ParseArch(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}

	parseTestCases := map[string]string{
		"Empty":        "",
		"UpperCase":    "X64",
		"GoArch":       "amd64",
		"RustTriple":   "x86_64",
		"Whitespace":   " x64",
		"NearMissARM":  "armv7",
		"NearMissPPC":  "ppc64el",
		"UnrelatedArm": "riscv64",
	}

	for name := range parseTestCases {
		token := parseTestCases[name]
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			parsed, err := ParseArch(token)
			require.ErrorIs(t, err, ErrUnknownArch)
			assert.Empty(t, parsed)
		})
	}
}

func TestParseLibC(t *testing.T) {
	t.Parallel()

	for _, l := range LibCs() {
		parsed, err := ParseLibC(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, parsed)
	}

	for _, token := range []string{"", "Musl", "uclibc", "gnu"} {
		parsed, err := ParseLibC(token)
		require.ErrorIs(t, err, ErrUnknownLibC)
		assert.Empty(t, parsed)
	}
}

func TestDownloadPathSuffix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-musl", LibCMusl.DownloadPathSuffix())
	assert.Equal(t, "", LibCGlibc.DownloadPathSuffix())
}
