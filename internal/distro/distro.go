// Package distro verifies that archup is running on an Arch Linux system
// before any step touches the package manager.
package distro

import (
	"os"
	"strings"

	"github.com/archup/archup/internal/constants"
	"github.com/archup/archup/internal/errors"
)

// Distribution holds the identity fields parsed from os-release.
type Distribution struct {
	ID         string
	IDLike     []string
	Name       string
	PrettyName string
}

// IsArch reports whether the distribution is Arch Linux or an Arch
// derivative.
func (d *Distribution) IsArch() bool {
	if d.ID == "arch" {
		return true
	}
	for _, like := range d.IDLike {
		if like == "arch" {
			return true
		}
	}
	return false
}

// FileReader reads files for detection; swappable in tests.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
	FileExists(path string) bool
}

// DefaultFileReader uses the real filesystem.
type DefaultFileReader struct{}

// ReadFile implements FileReader.
func (DefaultFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// FileExists implements FileReader.
func (DefaultFileReader) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Detector identifies the running distribution from os-release.
type Detector struct {
	fsReader FileReader
}

// NewDetector creates a detector. A nil fsReader uses the real filesystem.
func NewDetector(fsReader FileReader) *Detector {
	if fsReader == nil {
		fsReader = DefaultFileReader{}
	}
	return &Detector{fsReader: fsReader}
}

// Detect reads the distribution identity. /etc/os-release is authoritative;
// /usr/lib/os-release and /etc/arch-release are fallbacks.
func (d *Detector) Detect() (*Distribution, error) {
	const op = "distro.Detect"

	for _, path := range []string{constants.OSReleasePath, "/usr/lib/os-release"} {
		if !d.fsReader.FileExists(path) {
			continue
		}
		content, err := d.fsReader.ReadFile(path)
		if err != nil {
			continue
		}
		return ParseOSRelease(string(content)), nil
	}

	// Very old or stripped-down systems may only carry the marker file.
	if d.fsReader.FileExists("/etc/arch-release") {
		return &Distribution{ID: "arch", Name: "Arch Linux"}, nil
	}

	return nil, errors.New(errors.Unsupported, "cannot detect the Linux distribution").WithOp(op)
}

// RequireArch detects the distribution and errors when it is not Arch or an
// Arch derivative.
func (d *Detector) RequireArch() (*Distribution, error) {
	dist, err := d.Detect()
	if err != nil {
		return nil, err
	}
	if !dist.IsArch() {
		return dist, errors.ErrNotArch
	}
	return dist, nil
}

// ParseOSRelease parses os-release KEY=value content. Unknown keys are
// ignored; quoting is stripped.
func ParseOSRelease(content string) *Distribution {
	dist := &Distribution{}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)

		switch key {
		case "ID":
			dist.ID = strings.ToLower(value)
		case "ID_LIKE":
			for _, like := range strings.Fields(strings.ToLower(value)) {
				dist.IDLike = append(dist.IDLike, like)
			}
		case "NAME":
			dist.Name = value
		case "PRETTY_NAME":
			dist.PrettyName = value
		}
	}

	return dist
}
