package dieselctx

import "github.com/andewx/dieselctx/driver"

// QueueFamilyIndices holds the queue families a context needs on one
// physical device. It is recomputed on every suitability check.
type QueueFamilyIndices struct {
	Graphics uint32
}

// FindQueueFamilyIndices returns the first queue family, in driver order,
// whose flags include graphics.
//
// Presentation support is not checked: nothing presents yet. A present
// family has to be added here together with the swapchain.
func FindQueueFamilyIndices(pd driver.PhysicalDevice) (QueueFamilyIndices, error) {
	for i, family := range pd.QueueFamilyProperties() {
		if family.Flags.Has(driver.QueueGraphics) {
			return QueueFamilyIndices{Graphics: uint32(i)}, nil
		}
	}
	return QueueFamilyIndices{}, &SuitabilityError{Reason: "required queue families"}
}
