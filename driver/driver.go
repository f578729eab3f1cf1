// Package driver describes the slice of the Vulkan API that context bring-up
// needs. Backends live in subpackages: driver/vulkan binds the real loader and
// driver/drivertest provides a counting fake for tests.
//
// Every handle returned by a Create call is owned by the caller and must be
// released exactly once with the matching Destroy call. Physical devices and
// queues are driver-owned and are never released.
package driver

// Loader locates the Vulkan loader library and resolves its entry point.
type Loader interface {
	// Load binds the entry point. It fails when no loader library is present.
	Load() (Entry, error)
}

// Entry is the global, instance-independent part of the API.
type Entry interface {
	// Version gets the packed instance-level API version reported by the loader.
	Version() (uint32, error)
	// InstanceLayers gets the names of every instance layer the loader can enable.
	InstanceLayers() ([]string, error)
	// InstanceExtensions gets the names of every instance extension the loader exposes.
	InstanceExtensions() ([]string, error)
	// DebugExtension gets the name of the instance extension the backend needs
	// for Instance.CreateMessenger.
	DebugExtension() string
	// CreateInstance creates a new instance. The instance must be destroyed with Instance.Destroy.
	CreateInstance(info InstanceInfo) (Instance, error)
}

// Instance is a live connection to the driver.
type Instance interface {
	// CreateMessenger attaches a diagnostic callback to the instance.
	// The messenger must be destroyed with DestroyMessenger before Destroy is called.
	CreateMessenger(cfg MessengerConfig) (Messenger, error)
	// DestroyMessenger releases a messenger created by CreateMessenger.
	DestroyMessenger(m Messenger)
	// PhysicalDevices gets the GPUs in driver-reported order.
	PhysicalDevices() ([]PhysicalDevice, error)
	// CreateDevice creates a logical device on pd. The device must be
	// destroyed with Device.Destroy before the instance is destroyed.
	CreateDevice(pd PhysicalDevice, info DeviceInfo) (Device, error)
	// Destroy is the destructor for the instance.
	Destroy()
}

// PhysicalDevice is a driver-enumerated GPU.
type PhysicalDevice interface {
	// Properties gets the identifying properties of the GPU.
	Properties() PhysicalDeviceProperties
	// QueueFamilyProperties gets the queue families in driver-reported order.
	QueueFamilyProperties() []QueueFamilyProperties
}

// Device is a logical device.
type Device interface {
	// Queue gets queue index of the given family.
	Queue(family, index uint32) Queue
	// Destroy waits for the device to go idle and releases it.
	Destroy()
}

// Queue is a device queue handle.
type Queue interface {
	// Family gets the queue family index the queue was retrieved from.
	Family() uint32
}

// Messenger is an installed diagnostic callback.
type Messenger interface {
	// Config gets the filter and callback the messenger was installed with.
	Config() MessengerConfig
}

// Callback receives one diagnostic message. It may run on any driver thread
// and must not block. There is no return value: diagnostics never abort the
// API call that produced them.
type Callback func(severity Severity, category Category, message string)

// MessengerConfig selects which messages reach Callback.
type MessengerConfig struct {
	Severities Severity
	Categories Category
	Callback   Callback
}

// InstanceInfo mirrors VkInstanceCreateInfo and its VkApplicationInfo.
type InstanceInfo struct {
	AppName       string
	AppVersion    uint32
	EngineName    string
	EngineVersion uint32
	APIVersion    uint32
	Layers        []string
	Extensions    []string
	Flags         InstanceFlags
	// Messenger, when set, is chained into the create info so that instance
	// creation and destruction themselves are reported.
	Messenger *MessengerConfig
}

// DeviceInfo mirrors VkDeviceCreateInfo with a single queue family.
type DeviceInfo struct {
	QueueFamily     uint32
	QueuePriorities []float32
	Layers          []string
	Extensions      []string
}

// PhysicalDeviceProperties holds the identifying subset of VkPhysicalDeviceProperties.
type PhysicalDeviceProperties struct {
	Name       string
	Type       DeviceType
	APIVersion uint32
	VendorID   uint32
	DeviceID   uint32
}

// QueueFamilyProperties holds the subset of VkQueueFamilyProperties used for selection.
type QueueFamilyProperties struct {
	Flags      QueueFlags
	QueueCount uint32
}
