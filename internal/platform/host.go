package platform

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Host describes the machine fnm itself runs on. It is probed once at
// startup and passed around explicitly so that compatibility rules stay
// testable with synthetic descriptors instead of per-target builds.
type Host struct {
	// OS and Processor hold the runtime.GOOS and runtime.GOARCH values.
	OS        string
	Processor string
	// LinuxFamily is the distribution family on linux hosts ("alpine",
	// "debian", ...), empty elsewhere. Best-effort, from /etc/os-release.
	LinuxFamily string
}

const osReleasePath = "/etc/os-release"

func CurrentHost() Host {
	h := Host{
		OS:        runtime.GOOS,
		Processor: runtime.GOARCH,
	}
	if h.OS == "linux" {
		h.LinuxFamily = linuxFamily(osReleasePath)
	}
	return h
}

var goarchToArch = map[string]Arch{
	"386":     ArchX86,
	"amd64":   ArchX64,
	"arm":     ArchARMv7l,
	"arm64":   ArchARM64,
	"ppc64":   ArchPPC64,
	"ppc64le": ArchPPC64LE,
	"s390x":   ArchS390X,
}

// DefaultArch maps the host processor onto the Node.js architecture naming
// scheme. A processor outside the known set cannot be served by any mirror,
// so the caller must treat this error as fatal at startup.
func DefaultArch(host Host) (Arch, error) {
	a, ok := goarchToArch[host.Processor]
	if !ok {
		return "", fmt.Errorf("running on unsupported host architecture %q, no Node.js builds exist for it", host.Processor)
	}
	return a, nil
}

// DefaultLibC guesses the C library of the host: musl on Alpine-family
// distributions, glibc everywhere else. It is a heuristic about the host,
// not a guarantee about any particular binary, and callers may override it.
func DefaultLibC(host Host) LibC {
	if host.LinuxFamily == "alpine" {
		return LibCMusl
	}
	return LibCGlibc
}

// linuxFamily extracts the distribution family from an os-release file. The
// ID field wins; ID_LIKE entries are consulted so that Alpine derivatives
// are still recognised as such.
func linuxFamily(path string) string {
	fd, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer fd.Close()

	var id, idLike string
	scanner := bufio.NewScanner(fd)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		value = strings.Trim(value, `"'`)
		switch key {
		case "ID":
			id = value
		case "ID_LIKE":
			idLike = value
		}
	}

	for _, family := range strings.Fields(idLike) {
		if family == "alpine" {
			return "alpine"
		}
	}
	return id
}
