// Package platform models the identifiers that pick a downloadable Node.js
// build for a machine: the processor architecture, the C library the build
// links against and a descriptor of the host fnm itself runs on.
package platform

import (
	"errors"
	"fmt"
	"strings"
)

// Arch identifies the processor family of a Node.js build. Its string form
// is the exact token used by the nodejs.org dist mirrors and is embedded
// verbatim in download paths and install-directory names, so it must stay
// byte-stable across releases.
type Arch string

const (
	ArchX86     Arch = "x86"
	ArchX64     Arch = "x64"
	ArchARM64   Arch = "arm64"
	ArchARMv7l  Arch = "armv7l"
	ArchPPC64LE Arch = "ppc64le"
	ArchPPC64   Arch = "ppc64"
	ArchS390X   Arch = "s390x"
)

var ErrUnknownArch = errors.New("unknown architecture")

// Archs lists all supported architectures in the order they are documented.
func Archs() []Arch {
	return []Arch{ArchX86, ArchX64, ArchARM64, ArchARMv7l, ArchPPC64LE, ArchPPC64, ArchS390X}
}

// ParseArch is the exact inverse of Arch.String. Matching is case-sensitive
// and unknown tokens are an error, never a silent fallback.
func ParseArch(token string) (Arch, error) {
	for _, a := range Archs() {
		if token == string(a) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w %q, expected one of %s", ErrUnknownArch, token, tokenList(Archs()))
}

func (a Arch) String() string {
	return string(a)
}

func tokenList[T ~string](values []T) string {
	tokens := make([]string, len(values))
	for i, v := range values {
		tokens[i] = string(v)
	}
	return strings.Join(tokens, ", ")
}
