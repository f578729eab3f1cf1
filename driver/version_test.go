package driver

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionPacking(t *testing.T) {
	packed := MakeVersion(1, 3, 216)
	assert.Equal(t, "1.3.216", Version(packed).String())

	v, err := ParseVersion("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, MakeVersion(1, 2, 3), v)

	_, err = ParseVersion("not-a-version")
	assert.Error(t, err)

	_, err = PackVersion(semver.MustParse("1.5000.0"))
	assert.Error(t, err)
}

func TestVersionCompare(t *testing.T) {
	threshold := semver.MustParse("1.3.216")
	assert.True(t, Version(MakeVersion(1, 3, 216)).Compare(threshold) >= 0)
	assert.True(t, Version(MakeVersion(1, 3, 215)).LessThan(threshold))
	assert.False(t, Version(MakeVersion(1, 4, 0)).LessThan(threshold))
}

func TestFlagStrings(t *testing.T) {
	assert.Equal(t, "GRAPHICS|TRANSFER", (QueueGraphics | QueueTransfer).String())
	assert.True(t, (QueueGraphics | QueueTransfer).Has(QueueGraphics))
	assert.False(t, QueueCompute.Has(QueueGraphics))
	assert.Equal(t, "VALIDATION|PERFORMANCE", (CategoryValidation | CategoryPerformance).String())
	assert.Equal(t, "ERROR", SeverityError.String())
	assert.Equal(t, "0", Category(0).String())
	assert.Equal(t, "discrete", DeviceTypeDiscreteGPU.String())
}
