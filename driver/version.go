package driver

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// MakeVersion packs a version the way VK_MAKE_API_VERSION does, with variant 0.
func MakeVersion(major, minor, patch uint32) uint32 {
	return (major&0x7f)<<22 | (minor&0x3ff)<<12 | patch&0xfff
}

// Version unpacks a Vulkan packed version. The variant bits are dropped.
func Version(packed uint32) *semver.Version {
	return semver.New(
		uint64((packed>>22)&0x7f),
		uint64((packed>>12)&0x3ff),
		uint64(packed&0xfff),
		"", "")
}

// PackVersion packs a semantic version. Prerelease and metadata are ignored.
func PackVersion(v *semver.Version) (uint32, error) {
	if v.Major() > 0x7f || v.Minor() > 0x3ff || v.Patch() > 0xfff {
		return 0, fmt.Errorf("version %s does not fit a Vulkan packed version", v)
	}
	return MakeVersion(uint32(v.Major()), uint32(v.Minor()), uint32(v.Patch())), nil
}

// ParseVersion parses "major.minor.patch" into a packed version.
func ParseVersion(s string) (uint32, error) {
	v, err := semver.NewVersion(s)
	if err != nil {
		return 0, err
	}
	return PackVersion(v)
}
