// Package vulkan implements driver interfaces on top of github.com/vulkan-go/vulkan.
//
// The loader entry point is resolved once per process through the window
// system (glfw exposes vkGetInstanceProcAddr); every Load call after that
// hands out a fresh Entry bound to the same loader.
package vulkan

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/dieselctx/driver"
)

// ProcAddrFunc resolves vkGetInstanceProcAddr.
type ProcAddrFunc func() (unsafe.Pointer, error)

// Loader binds the Vulkan loader through a ProcAddrFunc.
type Loader struct {
	procAddr ProcAddrFunc

	once sync.Once
	err  error
}

// NewLoader returns a Loader which resolves the entry point with procAddr on first use.
func NewLoader(procAddr ProcAddrFunc) *Loader {
	return &Loader{procAddr: procAddr}
}

// Load implements driver.Loader.
func (l *Loader) Load() (driver.Entry, error) {
	l.once.Do(func() {
		p, err := l.procAddr()
		if err != nil {
			l.err = errors.Wrap(err, "resolve vkGetInstanceProcAddr")
			return
		}
		if p == nil {
			l.err = errors.New("vkGetInstanceProcAddr not found")
			return
		}
		vk.SetGetInstanceProcAddr(p)
		l.err = errors.Wrap(vk.Init(), "vulkan init")
	})
	if l.err != nil {
		return nil, l.err
	}
	return entry{}, nil
}

type entry struct{}

func (entry) Version() (uint32, error) {
	var version uint32
	ret := vk.EnumerateInstanceVersion(&version)
	if isError(ret) {
		return 0, newError(ret)
	}
	return version, nil
}

// InstanceLayers gets a list of validation layers available on the platform.
func (entry) InstanceLayers() (names []string, err error) {
	defer checkErr(&err)

	var count uint32
	ret := vk.EnumerateInstanceLayerProperties(&count, nil)
	orPanic(newError(ret))
	list := make([]vk.LayerProperties, count)
	ret = vk.EnumerateInstanceLayerProperties(&count, list)
	orPanic(newError(ret))
	for _, layer := range list {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, err
}

// InstanceExtensions gets a list of instance extensions available on the platform.
func (entry) InstanceExtensions() (names []string, err error) {
	defer checkErr(&err)

	var count uint32
	ret := vk.EnumerateInstanceExtensionProperties("", &count, nil)
	orPanic(newError(ret))
	list := make([]vk.ExtensionProperties, count)
	ret = vk.EnumerateInstanceExtensionProperties("", &count, list)
	orPanic(newError(ret))
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, err
}

// DebugExtension is VK_EXT_debug_report: vulkan-go wraps the report callback,
// not the debug-utils messenger.
func (entry) DebugExtension() string {
	return driver.ExtDebugReport
}

func (entry) CreateInstance(info driver.InstanceInfo) (driver.Instance, error) {
	// info.Messenger is not chained: vulkan-go cannot pass a Go callback
	// through PNext, so only the runtime messenger is installed.
	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         info.APIVersion,
			ApplicationVersion: info.AppVersion,
			PApplicationName:   safeString(info.AppName),
			EngineVersion:      info.EngineVersion,
			PEngineName:        safeString(info.EngineName),
		},
		Flags:                   vk.InstanceCreateFlags(info.Flags),
		EnabledExtensionCount:   uint32(len(info.Extensions)),
		PpEnabledExtensionNames: safeStrings(info.Extensions),
		EnabledLayerCount:       uint32(len(info.Layers)),
		PpEnabledLayerNames:     safeStrings(info.Layers),
	}, nil, &instance)
	if isError(ret) {
		return nil, newError(ret)
	}
	vk.InitInstance(instance)
	return &instanceHandle{h: instance}, nil
}

type instanceHandle struct {
	h vk.Instance
}

func (i *instanceHandle) CreateMessenger(cfg driver.MessengerConfig) (driver.Messenger, error) {
	var callback vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(i.h, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       reportFlags(cfg.Severities, cfg.Categories),
		PfnCallback: reportCallback(cfg),
	}, nil, &callback)
	if isError(ret) {
		return nil, newError(ret)
	}
	return &messengerHandle{h: callback, cfg: cfg}, nil
}

func (i *instanceHandle) DestroyMessenger(m driver.Messenger) {
	if mh, ok := m.(*messengerHandle); ok && mh.h != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(i.h, mh.h, nil)
		mh.h = vk.NullDebugReportCallback
	}
}

func (i *instanceHandle) PhysicalDevices() (gpus []driver.PhysicalDevice, err error) {
	defer checkErr(&err)

	var count uint32
	ret := vk.EnumeratePhysicalDevices(i.h, &count, nil)
	orPanic(newError(ret))
	list := make([]vk.PhysicalDevice, count)
	ret = vk.EnumeratePhysicalDevices(i.h, &count, list)
	orPanic(newError(ret))
	for _, gpu := range list[:count] {
		gpus = append(gpus, physicalDevice{h: gpu})
	}
	return gpus, err
}

func (i *instanceHandle) CreateDevice(pd driver.PhysicalDevice, info driver.DeviceInfo) (driver.Device, error) {
	gpu, ok := pd.(physicalDevice)
	if !ok {
		return nil, errors.Errorf("vulkan: foreign physical device %T", pd)
	}
	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: info.QueueFamily,
		QueueCount:       uint32(len(info.QueuePriorities)),
		PQueuePriorities: info.QueuePriorities,
	}}

	var device vk.Device
	ret := vk.CreateDevice(gpu.h, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(info.Extensions)),
		PpEnabledExtensionNames: safeStrings(info.Extensions),
		EnabledLayerCount:       uint32(len(info.Layers)),
		PpEnabledLayerNames:     safeStrings(info.Layers),
	}, nil, &device)
	if isError(ret) {
		return nil, newError(ret)
	}
	return &deviceHandle{h: device}, nil
}

func (i *instanceHandle) Destroy() {
	if i.h != nil {
		vk.DestroyInstance(i.h, nil)
		i.h = nil
	}
}

type messengerHandle struct {
	h   vk.DebugReportCallback
	cfg driver.MessengerConfig
}

func (m *messengerHandle) Config() driver.MessengerConfig { return m.cfg }

type physicalDevice struct {
	h vk.PhysicalDevice
}

func (p physicalDevice) Properties() driver.PhysicalDeviceProperties {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(p.h, &props)
	props.Deref()
	return driver.PhysicalDeviceProperties{
		Name:       vk.ToString(props.DeviceName[:]),
		Type:       driver.DeviceType(props.DeviceType),
		APIVersion: props.ApiVersion,
		VendorID:   props.VendorID,
		DeviceID:   props.DeviceID,
	}
}

func (p physicalDevice) QueueFamilyProperties() []driver.QueueFamilyProperties {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(p.h, &count, nil)
	list := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(p.h, &count, list)

	out := make([]driver.QueueFamilyProperties, 0, count)
	for _, family := range list[:count] {
		family.Deref()
		out = append(out, driver.QueueFamilyProperties{
			Flags:      driver.QueueFlags(family.QueueFlags),
			QueueCount: family.QueueCount,
		})
	}
	return out
}

type deviceHandle struct {
	h vk.Device
}

func (d *deviceHandle) Queue(family, index uint32) driver.Queue {
	var queue vk.Queue
	vk.GetDeviceQueue(d.h, family, index, &queue)
	return queueHandle{h: queue, family: family}
}

func (d *deviceHandle) Destroy() {
	if d.h != nil {
		vk.DeviceWaitIdle(d.h)
		vk.DestroyDevice(d.h, nil)
		d.h = nil
	}
}

type queueHandle struct {
	h      vk.Queue
	family uint32
}

func (q queueHandle) Family() uint32 { return q.family }
