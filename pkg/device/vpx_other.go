//go:build !windows

package device

import (
	"os"

	"github.com/pkg/errors"
)

// OpenVPX reports whether the library exists, then fails: the interop DLL only loads on Windows.
func OpenVPX(path string) (Driver, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(ErrDriverNotFound, "%s: %v", path, err)
	}
	return nil, ErrUnsupportedPlatform
}
