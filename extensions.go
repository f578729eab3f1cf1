package dieselctx

import (
	"runtime"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/exp/slices"

	"github.com/andewx/dieselctx/driver"
)

// hostOS is swapped by tests to exercise the portability path.
var hostOS = runtime.GOOS

// Loaders from this version on hide portability drivers such as MoltenVK
// unless portability enumeration is requested.
var portabilityMinVersion = semver.MustParse("1.3.216")

// portabilityRequired reports whether instance and device creation must opt
// in to the portability extensions.
func portabilityRequired(goos string, loaderVersion uint32) bool {
	return goos == "darwin" && !driver.Version(loaderVersion).LessThan(portabilityMinVersion)
}

// extensionSet is an ordered set of extension or layer names.
type extensionSet struct {
	names []string
}

func (s *extensionSet) add(names ...string) {
	for _, name := range names {
		if name == "" || slices.Contains(s.names, name) {
			continue
		}
		s.names = append(s.names, name)
	}
}

func (s *extensionSet) list() []string {
	return slices.Clone(s.names)
}
