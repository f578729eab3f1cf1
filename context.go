package dieselctx

import (
	"log/slog"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/andewx/dieselctx/driver"
)

// GraphicsContext is one window's connection to the graphics driver: the
// instance, an optional debug messenger, the selected physical device, the
// logical device and its graphics queue.
//
// A GraphicsContext is owned by exactly one Renderer and destroyed once.
type GraphicsContext struct {
	log *slog.Logger

	instance       driver.Instance
	reporter       *DebugReporter
	physicalDevice driver.PhysicalDevice
	device         driver.Device
	graphicsQueue  driver.Queue
	families       QueueFamilyIndices

	diagnostics bool
	portability bool
	extensions  []string
	layers      []string
}

// releaseStack runs release functions in reverse order of push.
type releaseStack []func()

func (s *releaseStack) push(release func()) {
	*s = append(*s, release)
}

func (s *releaseStack) unwind() {
	for i := len(*s) - 1; i >= 0; i-- {
		(*s)[i]()
	}
	*s = nil
}

// NewGraphicsContext brings up a context for win. Each step either
// succeeds or the handles acquired so far are released before the error
// is returned. All errors are *InitError.
func NewGraphicsContext(cfg Config, loader driver.Loader, win Window, log *slog.Logger) (gc *GraphicsContext, err error) {
	log = orDefault(log)

	entry, err := loader.Load()
	if err != nil {
		return nil, &InitError{Kind: DriverLoadError, Err: errors.Wrap(err, "load vulkan")}
	}

	info, err := cfg.instanceInfo()
	if err != nil {
		return nil, &InitError{Kind: InstanceCreationError, Err: err}
	}

	available, err := entry.InstanceLayers()
	if err != nil {
		return nil, &InitError{Kind: MissingLayerError, Err: errors.Wrap(err, "enumerate instance layers")}
	}
	for _, layer := range available {
		log.Info("available instance layer", "layer", layer)
	}

	diagnostics := cfg.Diagnostics
	var layers extensionSet
	if diagnostics {
		if !slices.Contains(available, cfg.ValidationLayer) {
			return nil, &InitError{
				Kind: MissingLayerError,
				Err:  errors.Errorf("validation layer %s requested, but not available", cfg.ValidationLayer),
			}
		}
		layers.add(cfg.ValidationLayer)
	}

	loaderVersion, err := entry.Version()
	if err != nil {
		return nil, &InitError{Kind: DriverLoadError, Err: errors.Wrap(err, "loader version")}
	}
	portability := portabilityRequired(hostOS, loaderVersion)

	var extensions extensionSet
	extensions.add(win.RequiredInstanceExtensions()...)
	if diagnostics {
		extensions.add(entry.DebugExtension())
	}
	if portability {
		extensions.add(driver.KhrPortabilityEnumeration, driver.KhrGetPhysicalDeviceProperties2)
		info.Flags |= driver.InstanceEnumeratePortability
	}
	info.Layers = layers.list()
	info.Extensions = extensions.list()

	var messengerConfig driver.MessengerConfig
	if diagnostics {
		messengerConfig = DefaultMessengerConfig(log)
		info.Messenger = &messengerConfig
	}

	var release releaseStack
	defer func() {
		if err != nil {
			release.unwind()
		}
	}()

	instance, err := entry.CreateInstance(info)
	if err != nil {
		return nil, &InitError{Kind: InstanceCreationError, Err: errors.Wrap(err, "create instance")}
	}
	release.push(instance.Destroy)
	log.Debug("created instance",
		"loader", driver.Version(loaderVersion).String(),
		"extensions", info.Extensions,
		"layers", info.Layers,
		"portability", portability)

	var reporter *DebugReporter
	if diagnostics {
		reporter, err = InstallDebugReporter(instance, messengerConfig)
		if err != nil {
			return nil, err
		}
		release.push(reporter.Uninstall)
	}

	physicalDevice, err := DeviceSelector{Log: log}.Select(instance)
	if err != nil {
		return nil, err
	}
	families, err := FindQueueFamilyIndices(physicalDevice)
	if err != nil {
		return nil, &InitError{Kind: NoSuitableDeviceError, Err: err}
	}

	var deviceExtensions extensionSet
	if portability {
		deviceExtensions.add(driver.KhrPortabilitySubset)
	}
	device, err := instance.CreateDevice(physicalDevice, driver.DeviceInfo{
		QueueFamily:     families.Graphics,
		QueuePriorities: []float32{1.0},
		Layers:          info.Layers,
		Extensions:      deviceExtensions.list(),
	})
	if err != nil {
		return nil, &InitError{Kind: DeviceCreationError, Err: errors.Wrap(err, "create logical device")}
	}
	release.push(device.Destroy)

	return &GraphicsContext{
		log:            log,
		instance:       instance,
		reporter:       reporter,
		physicalDevice: physicalDevice,
		device:         device,
		graphicsQueue:  device.Queue(families.Graphics, 0),
		families:       families,
		diagnostics:    diagnostics,
		portability:    portability,
		extensions:     info.Extensions,
		layers:         info.Layers,
	}, nil
}

// Destroy releases the device, then the debug messenger, then the instance.
// Calling it again does nothing.
func (gc *GraphicsContext) Destroy() {
	if gc == nil || gc.instance == nil {
		return
	}
	gc.device.Destroy()
	if gc.reporter != nil {
		gc.reporter.Uninstall()
	}
	gc.instance.Destroy()
	gc.log.Debug("destroyed graphics context", "device", gc.DeviceName())

	gc.device = nil
	gc.graphicsQueue = nil
	gc.reporter = nil
	gc.instance = nil
}

func (gc *GraphicsContext) PhysicalDevice() driver.PhysicalDevice { return gc.physicalDevice }

// DeviceName gets the selected physical device's name.
func (gc *GraphicsContext) DeviceName() string {
	return gc.physicalDevice.Properties().Name
}

func (gc *GraphicsContext) Device() driver.Device { return gc.device }

func (gc *GraphicsContext) GraphicsQueue() driver.Queue { return gc.graphicsQueue }

func (gc *GraphicsContext) QueueFamilies() QueueFamilyIndices { return gc.families }

// Diagnostics reports whether the validation layer and messenger are active.
func (gc *GraphicsContext) Diagnostics() bool { return gc.diagnostics }

// Portability reports whether the portability extensions were enabled.
func (gc *GraphicsContext) Portability() bool { return gc.portability }

// EnabledExtensions gets the instance extensions the context was created with.
func (gc *GraphicsContext) EnabledExtensions() []string { return slices.Clone(gc.extensions) }

// EnabledLayers gets the instance layers the context was created with.
func (gc *GraphicsContext) EnabledLayers() []string { return slices.Clone(gc.layers) }
