package routetable

import (
	"fmt"
)

// ParseErrorType represents the category of a snapshot parse failure
type ParseErrorType int

// Parse error type constants
const (
	// ParseErrAddress indicates a malformed address or network literal
	ParseErrAddress ParseErrorType = iota
	// ParseErrHardwareAddress indicates a malformed MAC address literal
	ParseErrHardwareAddress
	// ParseErrIPv4Component indicates a non-numeric component in an IPv4 shorthand
	ParseErrIPv4Component
	// ParseErrIPv4ComponentCount indicates an IPv4 shorthand with too many components
	ParseErrIPv4ComponentCount
	// ParseErrExpiration indicates an Expire column that is neither "!" nor seconds
	ParseErrExpiration
	// ParseErrMissingDestination indicates a row without a Destination column
	ParseErrMissingDestination
	// ParseErrMissingGateway indicates a row without a Gateway column
	ParseErrMissingGateway
	// ParseErrMissingInterface indicates a row without a Netif column
	ParseErrMissingInterface
	// ParseErrMissingHeaders indicates a section marker with no header line after it
	ParseErrMissingHeaders
	// ParseErrEntryBeforeProtocol indicates a data row before any section marker
	ParseErrEntryBeforeProtocol
)

// String returns a string representation of the parse error type
func (e ParseErrorType) String() string {
	switch e {
	case ParseErrAddress:
		return "Address"
	case ParseErrHardwareAddress:
		return "HardwareAddress"
	case ParseErrIPv4Component:
		return "IPv4Component"
	case ParseErrIPv4ComponentCount:
		return "IPv4ComponentCount"
	case ParseErrExpiration:
		return "Expiration"
	case ParseErrMissingDestination:
		return "MissingDestination"
	case ParseErrMissingGateway:
		return "MissingGateway"
	case ParseErrMissingInterface:
		return "MissingInterface"
	case ParseErrMissingHeaders:
		return "MissingHeaders"
	case ParseErrEntryBeforeProtocol:
		return "EntryBeforeProtocol"
	default:
		return "UnknownError"
	}
}

// ParseError is returned for every malformed piece of a routing table snapshot.
// Value holds the offending token (or section name), Count the component count
// for ParseErrIPv4ComponentCount, and Cause the underlying parser error if any.
type ParseError struct {
	Type  ParseErrorType
	Value string
	Count int
	Cause error
}

// Sentinel parse errors for use with errors.Is
var (
	ErrMissingDestination  = &ParseError{Type: ParseErrMissingDestination}
	ErrMissingGateway      = &ParseError{Type: ParseErrMissingGateway}
	ErrMissingInterface    = &ParseError{Type: ParseErrMissingInterface}
	ErrMissingHeaders      = &ParseError{Type: ParseErrMissingHeaders}
	ErrEntryBeforeProtocol = &ParseError{Type: ParseErrEntryBeforeProtocol}
)

// Error implements the error interface for ParseError
func (pe *ParseError) Error() string {
	switch pe.Type {
	case ParseErrAddress:
		return fmt.Sprintf("parsing destination CIDR %q: %v", pe.Value, pe.Cause)
	case ParseErrHardwareAddress:
		return fmt.Sprintf("parsing MAC addr %q: %v", pe.Value, pe.Cause)
	case ParseErrIPv4Component:
		return fmt.Sprintf("unparseable byte in IPv4 address %q: %v", pe.Value, pe.Cause)
	case ParseErrIPv4ComponentCount:
		return fmt.Sprintf("invalid number of IPv4 address components (%d) in %q", pe.Count, pe.Value)
	case ParseErrExpiration:
		return fmt.Sprintf("invalid expiration %q: %v", pe.Value, pe.Cause)
	case ParseErrMissingDestination:
		return "missing destination"
	case ParseErrMissingGateway:
		return "missing gateway"
	case ParseErrMissingInterface:
		return "missing network interface"
	case ParseErrMissingHeaders:
		return fmt.Sprintf("no headers follow %q section marker", pe.Value)
	case ParseErrEntryBeforeProtocol:
		return "route entry found before protocol (Internet/Internet6) found"
	default:
		return fmt.Sprintf("parse error [%s]: %v", pe.Type, pe.Cause)
	}
}

// Unwrap returns the underlying cause
func (pe *ParseError) Unwrap() error {
	return pe.Cause
}

// Is reports whether target is a ParseError of the same type
func (pe *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Type == pe.Type
}

// LineError records which snapshot line a parse error came from
type LineError struct {
	Line int // 1-based
	Text string
	Err  error
}

// Error implements the error interface for LineError
func (le *LineError) Error() string {
	return fmt.Sprintf("parsing route entry on line %d: %v", le.Line, le.Err)
}

// Unwrap returns the underlying parse error
func (le *LineError) Unwrap() error {
	return le.Err
}
