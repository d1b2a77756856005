package diffx

import "fmt"

// UnsupportedTypeError is returned by FromGo when a host value has no
// canonical mapping. GoType names the offending runtime type.
type UnsupportedTypeError struct {
	GoType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("diffx: unsupported type: %s", e.GoType)
}

// CycleError is returned by FromGo when the recursion guard trips, which
// means the input is either self-referential or nested beyond MaxDepth.
type CycleError struct {
	Depth int
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("diffx: value exceeds depth %d, structure may be cyclic", e.Depth)
}

// ConfigError is returned by the option builders when a recognized option
// carries a bad value: wrong type, invalid regular expression, or an
// unrecognized output format name.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("diffx: option %q: %s", e.Option, e.Reason)
}

// MalformedResultError is returned when reverse-marshalling a host result
// mapping that is missing a required field or carries an unknown
// discriminator.
type MalformedResultError struct {
	Reason string
}

func (e *MalformedResultError) Error() string {
	return fmt.Sprintf("diffx: malformed result: %s", e.Reason)
}

// ParseError wraps a failure from one of the text parsers
type ParseError struct {
	Format DataFormat
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("diffx: parse %s: %s", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// RenderError wraps a failure from the output renderer
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("diffx: render: %s", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
