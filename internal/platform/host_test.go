package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultArch(t *testing.T) {
	t.Parallel()

	archTestCases := map[string]struct {
		processor string
		expected  Arch
	}{
		"Intel32":     {processor: "386", expected: ArchX86},
		"Intel64":     {processor: "amd64", expected: ArchX64},
		"ARM32":       {processor: "arm", expected: ArchARMv7l},
		"ARM64":       {processor: "arm64", expected: ArchARM64},
		"PowerBE":     {processor: "ppc64", expected: ArchPPC64},
		"PowerLE":     {processor: "ppc64le", expected: ArchPPC64LE},
		"Mainframe":   {processor: "s390x", expected: ArchS390X},
		"Unsupported": {processor: "riscv64"},
		"Empty":       {processor: ""},
	}

	for name := range archTestCases {
		tc := archTestCases[name]
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a, err := DefaultArch(Host{OS: "linux", Processor: tc.processor})
			if tc.expected == "" {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, a)
			}
		})
	}
}

func TestDefaultLibC(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LibCMusl, DefaultLibC(Host{OS: "linux", LinuxFamily: "alpine"}))
	assert.Equal(t, LibCGlibc, DefaultLibC(Host{OS: "linux", LinuxFamily: "debian"}))
	assert.Equal(t, LibCGlibc, DefaultLibC(Host{OS: "linux"}))
	assert.Equal(t, LibCGlibc, DefaultLibC(Host{OS: "darwin"}))
}

func TestLinuxFamily(t *testing.T) {
	t.Parallel()

	familyTestCases := map[string]struct {
		content  string
		expected string
	}{
		"Alpine": {
			content:  "NAME=\"Alpine Linux\"\nID=alpine\nVERSION_ID=3.19.1\n",
			expected: "alpine",
		},
		"AlpineDerivative": {
			content:  "ID=postmarketos\nID_LIKE=alpine\n",
			expected: "alpine",
		},
		"Debian": {
			content:  "ID=debian\nHOME_URL=\"https://www.debian.org/\"\n",
			expected: "debian",
		},
		"UbuntuQuoted": {
			content:  "ID=\"ubuntu\"\nID_LIKE=debian\n",
			expected: "ubuntu",
		},
		"NoIdentifiers": {
			content:  "NAME=Mystery\n",
			expected: "",
		},
	}

	for name := range familyTestCases {
		tc := familyTestCases[name]
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p := filepath.Join(t.TempDir(), "os-release")
			require.NoError(t, os.WriteFile(p, []byte(tc.content), 0o644))
			assert.Equal(t, tc.expected, linuxFamily(p))
		})
	}

	t.Run("MissingFile", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "", linuxFamily(filepath.Join(t.TempDir(), "absent")))
	})
}
