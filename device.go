package dieselctx

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/andewx/dieselctx/driver"
)

// SuitabilityCheck rejects a physical device with a *SuitabilityError.
type SuitabilityCheck func(pd driver.PhysicalDevice) error

// DefaultSuitabilityChecks only requires a graphics queue family.
var DefaultSuitabilityChecks = []SuitabilityCheck{
	hasGraphicsQueue,
}

func hasGraphicsQueue(pd driver.PhysicalDevice) error {
	_, err := FindQueueFamilyIndices(pd)
	return err
}

// CheckSuitability runs DefaultSuitabilityChecks against pd.
func CheckSuitability(pd driver.PhysicalDevice) error {
	return DeviceSelector{}.check(pd)
}

// DeviceSelector picks the first physical device that passes every check.
// Devices are visited in driver order, which is not stable across runs.
type DeviceSelector struct {
	// Checks defaults to DefaultSuitabilityChecks.
	Checks []SuitabilityCheck
	Log    *slog.Logger
}

// SelectPhysicalDevice selects with the default checks.
func SelectPhysicalDevice(instance driver.Instance, log *slog.Logger) (driver.PhysicalDevice, error) {
	return DeviceSelector{Log: log}.Select(instance)
}

// Select enumerates the instance's devices and returns the first suitable one.
// Rejected devices are logged with their reason and skipped.
func (s DeviceSelector) Select(instance driver.Instance) (driver.PhysicalDevice, error) {
	log := orDefault(s.Log)
	gpus, err := instance.PhysicalDevices()
	if err != nil {
		return nil, &InitError{Kind: NoSuitableDeviceError, Err: errors.Wrap(err, "enumerate physical devices")}
	}
	for _, gpu := range gpus {
		props := gpu.Properties()
		if err := s.check(gpu); err != nil {
			log.Warn("skipping physical device", "device", props.Name, "reason", err)
			continue
		}
		log.Info("selected physical device", "device", props.Name, "type", props.Type,
			"api", driver.Version(props.APIVersion).String())
		return gpu, nil
	}
	return nil, &InitError{
		Kind: NoSuitableDeviceError,
		Err:  errors.Errorf("failed to find suitable physical device among %d", len(gpus)),
	}
}

func (s DeviceSelector) check(pd driver.PhysicalDevice) error {
	checks := s.Checks
	if checks == nil {
		checks = DefaultSuitabilityChecks
	}
	for _, check := range checks {
		if err := check(pd); err != nil {
			return err
		}
	}
	return nil
}
