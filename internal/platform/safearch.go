package platform

import (
	"github.com/fnm-sh/fnm/internal/version"
)

// SafeArch substitutes a compatible architecture for the requested one under
// the single known host/version incompatibility: Node.js releases older than
// 16 were never published for darwin/arm64, and the x64 build runs fine
// under Rosetta on Apple Silicon. Every other combination is returned
// verbatim; named channel versions never trigger the substitution.
//
// The rule keys off the actual host rather than the requested architecture
// because the missing artifact is a property of the machine, not of the
// request. It never fails and has no side effects.
func SafeArch(requested Arch, v version.Version, host Host) Arch {
	if host.OS == "darwin" && host.Processor == "arm64" {
		if sv, ok := v.Semver(); ok && sv.Major() < 16 {
			return ArchX64
		}
	}
	return requested
}
