package driver

import "strings"

// Extension and layer names.
const (
	ExtDebugUtils                   = "VK_EXT_debug_utils"
	ExtDebugReport                  = "VK_EXT_debug_report"
	KhrPortabilityEnumeration       = "VK_KHR_portability_enumeration"
	KhrGetPhysicalDeviceProperties2 = "VK_KHR_get_physical_device_properties2"
	KhrPortabilitySubset            = "VK_KHR_portability_subset"
	LayerKhronosValidation          = "VK_LAYER_KHRONOS_validation"
)

// QueueFlags mirrors VkQueueFlagBits.
type QueueFlags uint32

const (
	QueueGraphics      QueueFlags = 0x00000001
	QueueCompute       QueueFlags = 0x00000002
	QueueTransfer      QueueFlags = 0x00000004
	QueueSparseBinding QueueFlags = 0x00000008
)

// Has reports whether every bit of flag is set.
func (f QueueFlags) Has(flag QueueFlags) bool {
	return f&flag == flag
}

func (f QueueFlags) String() string {
	return flagString(uint32(f), []flagName{
		{uint32(QueueGraphics), "GRAPHICS"},
		{uint32(QueueCompute), "COMPUTE"},
		{uint32(QueueTransfer), "TRANSFER"},
		{uint32(QueueSparseBinding), "SPARSE_BINDING"},
	})
}

// InstanceFlags mirrors VkInstanceCreateFlagBits.
type InstanceFlags uint32

// InstanceEnumeratePortability is VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR.
const InstanceEnumeratePortability InstanceFlags = 0x00000001

// DeviceType mirrors VkPhysicalDeviceType.
type DeviceType uint32

const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

func (t DeviceType) String() string {
	switch t {
	case DeviceTypeIntegratedGPU:
		return "integrated"
	case DeviceTypeDiscreteGPU:
		return "discrete"
	case DeviceTypeVirtualGPU:
		return "virtual"
	case DeviceTypeCPU:
		return "cpu"
	default:
		return "other"
	}
}

// Severity mirrors VkDebugUtilsMessageSeverityFlagBitsEXT. Higher bits are
// more severe, so severities can be compared with >=.
type Severity uint32

const (
	SeverityVerbose Severity = 0x00000001
	SeverityInfo    Severity = 0x00000010
	SeverityWarning Severity = 0x00000100
	SeverityError   Severity = 0x00001000

	SeverityAll = SeverityVerbose | SeverityInfo | SeverityWarning | SeverityError
)

func (s Severity) String() string {
	return flagString(uint32(s), []flagName{
		{uint32(SeverityVerbose), "VERBOSE"},
		{uint32(SeverityInfo), "INFO"},
		{uint32(SeverityWarning), "WARNING"},
		{uint32(SeverityError), "ERROR"},
	})
}

// Category mirrors VkDebugUtilsMessageTypeFlagBitsEXT.
type Category uint32

const (
	CategoryGeneral     Category = 0x00000001
	CategoryValidation  Category = 0x00000002
	CategoryPerformance Category = 0x00000004
)

func (c Category) String() string {
	return flagString(uint32(c), []flagName{
		{uint32(CategoryGeneral), "GENERAL"},
		{uint32(CategoryValidation), "VALIDATION"},
		{uint32(CategoryPerformance), "PERFORMANCE"},
	})
}

type flagName struct {
	bit  uint32
	name string
}

func flagString(v uint32, names []flagName) string {
	if v == 0 {
		return "0"
	}
	var parts []string
	for _, n := range names {
		if v&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}
