package routetable

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Protocol is the address family of a routing table section
type Protocol uint8

// Protocol constants
const (
	// ProtocolV4 is the "Internet:" section
	ProtocolV4 Protocol = iota + 1
	// ProtocolV6 is the "Internet6:" section
	ProtocolV6
)

// String returns a string representation of the protocol
func (p Protocol) String() string {
	switch p {
	case ProtocolV4:
		return "IPv4"
	case ProtocolV6:
		return "IPv6"
	default:
		return "Unset"
	}
}

// Column headers understood by ParseRouteEntry. Any other column is skipped.
const (
	HeaderDestination = "Destination"
	HeaderGateway     = "Gateway"
	HeaderFlags       = "Flags"
	HeaderNetif       = "Netif"
	HeaderExpire      = "Expire"
)

// RouteEntry is a single row of the routing table
type RouteEntry struct {
	Protocol    Protocol
	Destination Destination
	Gateway     Destination
	Flags       FlagSet
	Interface   string

	// Expires is the remaining lifetime, meaningful only when HasExpiry is
	// set. ARP and NDP derived entries are the usual ones to expire.
	Expires   time.Duration
	HasExpiry bool
}

// ParseRouteEntry parses one data row. Fields are paired with headers by
// position; whichever list is longer is truncated.
func ParseRouteEntry(proto Protocol, line string, headers []string) (RouteEntry, error) {
	fields := strings.Fields(line)
	entry := RouteEntry{Protocol: proto}
	var haveDest, haveGateway, haveNetif bool

	for i := 0; i < len(headers) && i < len(fields); i++ {
		field := fields[i]
		switch headers[i] {
		case HeaderDestination:
			dest, err := ParseDestination(field)
			if err != nil {
				return RouteEntry{}, err
			}
			entry.Destination, haveDest = dest, true
		case HeaderGateway:
			gw, err := ParseDestination(field)
			if err != nil {
				return RouteEntry{}, err
			}
			entry.Gateway, haveGateway = gw, true
		case HeaderFlags:
			entry.Flags = ParseFlags(field)
		case HeaderNetif:
			entry.Interface, haveNetif = field, true
		case HeaderExpire:
			d, ok, err := ParseExpire(field)
			if err != nil {
				return RouteEntry{}, err
			}
			entry.Expires, entry.HasExpiry = d, ok
		}
	}

	switch {
	case !haveDest:
		return RouteEntry{}, ErrMissingDestination
	case !haveGateway:
		return RouteEntry{}, ErrMissingGateway
	case !haveNetif:
		return RouteEntry{}, ErrMissingInterface
	}
	return entry, nil
}

// ParseExpire parses an Expire column: "!" means no expiry, anything else
// must be a whole number of seconds.
func ParseExpire(s string) (time.Duration, bool, error) {
	if s == "!" {
		return 0, false, nil
	}
	secs, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false, &ParseError{Type: ParseErrExpiration, Value: s, Cause: err}
	}
	if secs > math.MaxInt64/uint64(time.Second) {
		return 0, false, &ParseError{Type: ParseErrExpiration, Value: s, Cause: strconv.ErrRange}
	}
	return time.Duration(secs) * time.Second, true, nil
}

// Expiry returns the remaining lifetime of the entry, if it has one
func (r RouteEntry) Expiry() (time.Duration, bool) {
	return r.Expires, r.HasExpiry
}

// String renders the entry as a netstat-like row
func (r RouteEntry) String() string {
	expire := "!"
	if r.HasExpiry {
		expire = strconv.FormatInt(int64(r.Expires/time.Second), 10)
	}
	return strings.Join([]string{
		r.Destination.String(),
		r.Gateway.String(),
		r.Flags.String(),
		r.Interface,
		expire,
	}, " ")
}
