// Package dist models the artifacts published on the Node.js dist mirrors
// and the paths they live at.
package dist

import (
	"strings"

	"github.com/fnm-sh/fnm/internal/platform"
	"github.com/fnm-sh/fnm/internal/version"
)

// Artifact identifies a single downloadable Node.js build.
type Artifact struct {
	Version version.Version
	// OS is the GOOS family of the target machine.
	OS   string
	Arch platform.Arch
	LibC platform.LibC
}

// osToken is the operating-system fragment of the published filenames. The
// mirrors shorten "windows" to "win".
func (a Artifact) osToken() string {
	if a.OS == "windows" {
		return "win"
	}
	return a.OS
}

// Ext is the archive format each platform is published in.
func (a Artifact) Ext() string {
	switch a.OS {
	case "windows":
		return ".zip"
	case "darwin":
		return ".tar.gz"
	default:
		return ".tar.xz"
	}
}

// FileName composes the published archive name, e.g.
// "node-v18.2.0-linux-x64.tar.xz" or "node-v12.0.0-linux-x64-musl.tar.xz".
// Every fragment must match the mirror byte-for-byte or downloads silently
// miss.
func (a Artifact) FileName() string {
	return "node-" + a.Version.String() + "-" + a.osToken() + "-" + a.Arch.String() + a.LibC.DownloadPathSuffix() + a.Ext()
}

// RemotePath is the location of the archive relative to the mirror root.
func (a Artifact) RemotePath() string {
	return a.Version.String() + "/" + a.FileName()
}

func (a Artifact) String() string {
	return strings.TrimSuffix(a.FileName(), a.Ext())
}
