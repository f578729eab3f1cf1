package vulkan

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/dieselctx/driver"
)

// reportFlags converts a messenger filter into debug report flags.
// Performance warnings are only requested when both the warning severity and
// the performance category are selected.
func reportFlags(severities driver.Severity, categories driver.Category) vk.DebugReportFlags {
	var flags vk.DebugReportFlagBits
	if severities&driver.SeverityError != 0 {
		flags |= vk.DebugReportErrorBit
	}
	if severities&driver.SeverityWarning != 0 {
		if categories&(driver.CategoryValidation|driver.CategoryGeneral) != 0 {
			flags |= vk.DebugReportWarningBit
		}
		if categories&driver.CategoryPerformance != 0 {
			flags |= vk.DebugReportPerformanceWarningBit
		}
	}
	if severities&driver.SeverityInfo != 0 {
		flags |= vk.DebugReportInformationBit
	}
	if severities&driver.SeverityVerbose != 0 {
		flags |= vk.DebugReportDebugBit
	}
	return vk.DebugReportFlags(flags)
}

// classify maps debug report flags back onto a severity and category.
func classify(flags vk.DebugReportFlags) (driver.Severity, driver.Category) {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return driver.SeverityError, driver.CategoryValidation
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		return driver.SeverityWarning, driver.CategoryPerformance
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		return driver.SeverityWarning, driver.CategoryValidation
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		return driver.SeverityInfo, driver.CategoryGeneral
	default:
		return driver.SeverityVerbose, driver.CategoryGeneral
	}
}

// reportCallback adapts cfg.Callback to the report signature. It always
// returns VK_FALSE so the reported call is never aborted.
func reportCallback(cfg driver.MessengerConfig) func(vk.DebugReportFlags, vk.DebugReportObjectType,
	uint64, uint, int32, string, string, unsafe.Pointer) vk.Bool32 {
	return func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
		object uint64, location uint, messageCode int32, pLayerPrefix string,
		pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

		severity, category := classify(flags)
		if cfg.Callback != nil && cfg.Categories&category != 0 {
			cfg.Callback(severity, category, "["+pLayerPrefix+"] "+pMessage)
		}
		return vk.Bool32(vk.False)
	}
}
