package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnm-sh/fnm/internal/version"
)

func TestSafeArch(t *testing.T) {
	t.Parallel()

	var (
		appleSilicon = Host{OS: "darwin", Processor: "arm64"}
		intelMac     = Host{OS: "darwin", Processor: "amd64"}
		linuxARM     = Host{OS: "linux", Processor: "arm64"}
	)

	safeArchTestCases := map[string]struct {
		requested Arch
		version   string
		host      Host
		expected  Arch
	}{
		"OldNodeOnAppleSilicon":     {requested: ArchARM64, version: "v14.17.0", host: appleSilicon, expected: ArchX64},
		"Node15BoundaryBelow":       {requested: ArchARM64, version: "v15.14.0", host: appleSilicon, expected: ArchX64},
		"Node16Boundary":            {requested: ArchARM64, version: "v16.0.0", host: appleSilicon, expected: ArchARM64},
		"ModernNodeOnAppleSilicon":  {requested: ArchARM64, version: "v20.11.1", host: appleSilicon, expected: ArchARM64},
		"ExplicitX64StaysUntouched": {requested: ArchX64, version: "v20.11.1", host: appleSilicon, expected: ArchX64},
		"CrossRequestStillRewrites": {requested: ArchS390X, version: "v12.0.0", host: appleSilicon, expected: ArchX64},
		"OldNodeOnIntelMac":         {requested: ArchX64, version: "v14.17.0", host: intelMac, expected: ArchX64},
		"OldNodeOnLinuxARM":         {requested: ArchARM64, version: "v14.17.0", host: linuxARM, expected: ArchARM64},
		"NamedChannelNeverRewrites": {requested: ArchARM64, version: "lts/fermium", host: appleSilicon, expected: ArchARM64},
	}

	for name := range safeArchTestCases {
		tc := safeArchTestCases[name]
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			v, err := version.Parse(tc.version)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, SafeArch(tc.requested, v, tc.host))
		})
	}
}
