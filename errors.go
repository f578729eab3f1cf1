package dieselctx

// ErrorKind classifies why a graphics context or window could not be brought up.
type ErrorKind int

const (
	DriverLoadError ErrorKind = iota + 1
	MissingLayerError
	InstanceCreationError
	NoSuitableDeviceError
	DeviceCreationError
	WindowCreationError
)

func (k ErrorKind) String() string {
	switch k {
	case DriverLoadError:
		return "driver load"
	case MissingLayerError:
		return "missing layer"
	case InstanceCreationError:
		return "instance creation"
	case NoSuitableDeviceError:
		return "no suitable device"
	case DeviceCreationError:
		return "device creation"
	case WindowCreationError:
		return "window creation"
	default:
		return "unknown"
	}
}

// InitError is returned by every bring-up operation. Match kinds with
// errors.Is against the Err* values.
type InitError struct {
	Kind ErrorKind
	Err  error
}

// Sentinels for errors.Is.
var (
	ErrDriverLoad       = &InitError{Kind: DriverLoadError}
	ErrMissingLayer     = &InitError{Kind: MissingLayerError}
	ErrInstanceCreation = &InitError{Kind: InstanceCreationError}
	ErrNoSuitableDevice = &InitError{Kind: NoSuitableDeviceError}
	ErrDeviceCreation   = &InitError{Kind: DeviceCreationError}
	ErrWindowCreation   = &InitError{Kind: WindowCreationError}
)

func (e *InitError) Error() string {
	if e.Err == nil {
		return e.Kind.String() + " error"
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// Is matches any InitError of the same kind when target carries no cause.
func (e *InitError) Is(target error) bool {
	t, ok := target.(*InitError)
	if !ok {
		return false
	}
	return t.Err == nil && t.Kind == e.Kind
}

// SuitabilityError rejects one physical device. It never escapes device
// selection on its own.
type SuitabilityError struct {
	Reason string
}

func (e *SuitabilityError) Error() string {
	return "missing " + e.Reason
}
