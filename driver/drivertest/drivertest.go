// Package drivertest provides a scripted in-memory driver. It counts every
// handle it hands out so tests can assert that create and destroy calls
// balance.
package drivertest

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/andewx/dieselctx/driver"
)

// Handle kinds tracked by Driver.
const (
	KindInstance  = "instance"
	KindMessenger = "messenger"
	KindDevice    = "device"
)

// Device scripts one physical device.
type Device struct {
	Name     string
	Type     driver.DeviceType
	Families []driver.QueueFlags
}

// Driver implements driver.Loader and driver.Entry.
//
// The zero value loads, reports version 1.0.0, exposes no layers and no
// devices. Set the Fail* fields to make a step fail.
type Driver struct {
	LoaderVersion uint32
	Layers        []string
	Extensions    []string
	Devices       []Device

	FailLoad      error
	FailInstance  error
	FailMessenger error
	FailDevice    error

	mu         sync.Mutex
	created    map[string]int
	destroyed  map[string]int
	calls      []string
	instances  []driver.InstanceInfo
	devices    []driver.DeviceInfo
	messengers []*messenger
}

// New returns a driver with the given devices and the validation layer installed.
func New(devices ...Device) *Driver {
	return &Driver{
		LoaderVersion: driver.MakeVersion(1, 3, 0),
		Layers:        []string{driver.LayerKhronosValidation},
		Devices:       devices,
	}
}

// GraphicsDevice is a device with a single graphics|compute|transfer family.
func GraphicsDevice(name string) Device {
	return Device{
		Name:     name,
		Type:     driver.DeviceTypeDiscreteGPU,
		Families: []driver.QueueFlags{driver.QueueGraphics | driver.QueueCompute | driver.QueueTransfer},
	}
}

// ComputeDevice is a device with no graphics-capable family.
func ComputeDevice(name string) Device {
	return Device{
		Name:     name,
		Type:     driver.DeviceTypeOther,
		Families: []driver.QueueFlags{driver.QueueCompute | driver.QueueTransfer},
	}
}

func (d *Driver) record(call string) {
	d.calls = append(d.calls, call)
}

func (d *Driver) create(kind string) {
	if d.created == nil {
		d.created = map[string]int{}
		d.destroyed = map[string]int{}
	}
	d.created[kind]++
	d.record("create " + kind)
}

func (d *Driver) destroy(kind string) {
	if d.destroyed == nil {
		d.created = map[string]int{}
		d.destroyed = map[string]int{}
	}
	d.destroyed[kind]++
	d.record("destroy " + kind)
}

// Created gets how many handles of kind were created.
func (d *Driver) Created(kind string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created[kind]
}

// Destroyed gets how many handles of kind were destroyed.
func (d *Driver) Destroyed(kind string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.destroyed[kind]
}

// Live gets the number of handles created and not yet destroyed, over all kinds.
func (d *Driver) Live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for kind, c := range d.created {
		n += c - d.destroyed[kind]
	}
	return n
}

// Calls gets the ordered log of create and destroy calls.
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// InstanceInfos gets every InstanceInfo passed to CreateInstance, including failed attempts.
func (d *Driver) InstanceInfos() []driver.InstanceInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]driver.InstanceInfo(nil), d.instances...)
}

// DeviceInfos gets every DeviceInfo passed to CreateDevice, including failed attempts.
func (d *Driver) DeviceInfos() []driver.DeviceInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]driver.DeviceInfo(nil), d.devices...)
}

// Emit delivers a message to every live messenger whose filter accepts it,
// the way a validation layer would. It returns the number of deliveries.
func (d *Driver) Emit(severity driver.Severity, category driver.Category, message string) int {
	d.mu.Lock()
	var targets []driver.Callback
	for _, m := range d.messengers {
		if m.destroyed {
			continue
		}
		if m.cfg.Severities&severity != 0 && m.cfg.Categories&category != 0 && m.cfg.Callback != nil {
			targets = append(targets, m.cfg.Callback)
		}
	}
	d.mu.Unlock()
	for _, cb := range targets {
		cb(severity, category, message)
	}
	return len(targets)
}

// Load implements driver.Loader.
func (d *Driver) Load() (driver.Entry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("load")
	if d.FailLoad != nil {
		return nil, d.FailLoad
	}
	return d, nil
}

// Version implements driver.Entry.
func (d *Driver) Version() (uint32, error) {
	if d.LoaderVersion == 0 {
		return driver.MakeVersion(1, 0, 0), nil
	}
	return d.LoaderVersion, nil
}

// InstanceLayers implements driver.Entry.
func (d *Driver) InstanceLayers() ([]string, error) {
	return append([]string(nil), d.Layers...), nil
}

// InstanceExtensions implements driver.Entry.
func (d *Driver) InstanceExtensions() ([]string, error) {
	return append([]string(nil), d.Extensions...), nil
}

// DebugExtension implements driver.Entry.
func (d *Driver) DebugExtension() string {
	return driver.ExtDebugUtils
}

// CreateInstance implements driver.Entry.
func (d *Driver) CreateInstance(info driver.InstanceInfo) (driver.Instance, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.instances = append(d.instances, info)
	if d.FailInstance != nil {
		return nil, d.FailInstance
	}
	d.create(KindInstance)
	return &instance{d: d}, nil
}

type instance struct {
	d         *Driver
	destroyed bool
}

func (i *instance) CreateMessenger(cfg driver.MessengerConfig) (driver.Messenger, error) {
	d := i.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if i.destroyed {
		return nil, errors.New("drivertest: instance already destroyed")
	}
	if d.FailMessenger != nil {
		return nil, d.FailMessenger
	}
	d.create(KindMessenger)
	m := &messenger{cfg: cfg}
	d.messengers = append(d.messengers, m)
	return m, nil
}

func (i *instance) DestroyMessenger(m driver.Messenger) {
	d := i.d
	d.mu.Lock()
	defer d.mu.Unlock()
	mm, ok := m.(*messenger)
	if !ok || mm.destroyed {
		panic(fmt.Sprintf("drivertest: invalid or double-destroyed messenger %v", m))
	}
	if i.destroyed {
		panic("drivertest: messenger destroyed after its instance")
	}
	mm.destroyed = true
	d.destroy(KindMessenger)
}

func (i *instance) PhysicalDevices() ([]driver.PhysicalDevice, error) {
	out := make([]driver.PhysicalDevice, len(i.d.Devices))
	for n := range i.d.Devices {
		out[n] = physicalDevice(i.d.Devices[n])
	}
	return out, nil
}

func (i *instance) CreateDevice(pd driver.PhysicalDevice, info driver.DeviceInfo) (driver.Device, error) {
	d := i.d
	d.mu.Lock()
	defer d.mu.Unlock()
	d.devices = append(d.devices, info)
	if i.destroyed {
		return nil, errors.New("drivertest: instance already destroyed")
	}
	if d.FailDevice != nil {
		return nil, d.FailDevice
	}
	d.create(KindDevice)
	return &device{i: i}, nil
}

func (i *instance) Destroy() {
	d := i.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if i.destroyed {
		panic("drivertest: instance destroyed twice")
	}
	i.destroyed = true
	d.destroy(KindInstance)
}

type messenger struct {
	cfg       driver.MessengerConfig
	destroyed bool
}

func (m *messenger) Config() driver.MessengerConfig { return m.cfg }

type physicalDevice Device

func (p physicalDevice) Properties() driver.PhysicalDeviceProperties {
	return driver.PhysicalDeviceProperties{
		Name:       p.Name,
		Type:       p.Type,
		APIVersion: driver.MakeVersion(1, 3, 0),
	}
}

func (p physicalDevice) QueueFamilyProperties() []driver.QueueFamilyProperties {
	out := make([]driver.QueueFamilyProperties, len(p.Families))
	for n, f := range p.Families {
		out[n] = driver.QueueFamilyProperties{Flags: f, QueueCount: 1}
	}
	return out
}

type device struct {
	i         *instance
	destroyed bool
}

func (dv *device) Queue(family, index uint32) driver.Queue {
	return queue(family)
}

func (dv *device) Destroy() {
	d := dv.i.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if dv.destroyed {
		panic("drivertest: device destroyed twice")
	}
	if dv.i.destroyed {
		panic("drivertest: device destroyed after its instance")
	}
	dv.destroyed = true
	d.destroy(KindDevice)
}

type queue uint32

func (q queue) Family() uint32 { return uint32(q) }
