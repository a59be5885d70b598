package platform

import (
	"errors"
	"fmt"
)

// LibC identifies the C library a Node.js build links against. It decides
// both the default download mirror and the artifact filename suffix.
type LibC string

const (
	LibCMusl  LibC = "musl"
	LibCGlibc LibC = "glibc"
)

var ErrUnknownLibC = errors.New("unknown libc")

// LibCs lists both supported C library flavours.
func LibCs() []LibC {
	return []LibC{LibCMusl, LibCGlibc}
}

// ParseLibC is the exact inverse of LibC.String. Matching is case-sensitive
// and unknown tokens are an error, never a silent fallback.
func ParseLibC(token string) (LibC, error) {
	for _, l := range LibCs() {
		if token == string(l) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w %q, expected one of %s", ErrUnknownLibC, token, tokenList(LibCs()))
}

func (l LibC) String() string {
	return string(l)
}

// DownloadPathSuffix is the fragment appended after the architecture token
// in artifact filenames. Musl builds are published with a "-musl" marker,
// glibc builds carry no marker at all.
func (l LibC) DownloadPathSuffix() string {
	if l == LibCMusl {
		return "-musl"
	}
	return ""
}
