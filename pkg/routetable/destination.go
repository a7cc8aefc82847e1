package routetable

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"
)

// ParseDestination parses a Destination or Gateway column token.
//
// Tokens starting with "link" are link-layer markers. Tokens with a "%zone"
// suffix are IPv6 scoped addresses, optionally followed by "/bits". Everything
// else goes through the simple parser, which tries, in order: "default", CIDR
// notation, IPv4 (including BSD shorthand) or dotted MAC, IPv6 or MAC, and
// finally a bare-number IPv4 shorthand.
func ParseDestination(token string) (Destination, error) {
	if strings.HasPrefix(token, "link") {
		return Destination{Entity: LinkEntity(token)}, nil
	}

	addrPart, zonePart, hasZone := strings.Cut(token, "%")
	if !hasZone {
		entity, err := parseSimpleDestination(token)
		if err != nil {
			return Destination{}, err
		}
		return Destination{Entity: entity}, nil
	}

	// e.g. fe80::1%lo0 or fe80::%en0/64
	prefix, err := parseZonedAddress(addrPart)
	if err != nil {
		return Destination{}, err
	}
	zone, rest, hasBits := strings.Cut(zonePart, "/")
	if zone == "" {
		return Destination{}, &ParseError{Type: ParseErrAddress, Value: token, Cause: errors.New("empty zone")}
	}
	if !hasBits {
		return Destination{Entity: CIDREntity(prefix), Zone: zone}, nil
	}
	bits, _, _ := strings.Cut(rest, "/")
	entity, err := parseSimpleDestination(prefix.Addr().String() + "/" + bits)
	if err != nil {
		return Destination{}, err
	}
	return Destination{Entity: entity, Zone: zone}, nil
}

func parseSimpleDestination(dest string) (Entity, error) {
	switch {
	case dest == "default":
		return DefaultEntity(), nil

	case strings.Contains(dest, "/"):
		prefix, err := parsePrefix(dest)
		if err != nil {
			return Entity{}, err
		}
		return CIDREntity(prefix), nil

	case strings.Contains(dest, "."):
		if addr, err := ParseLegacyIPv4(dest); err == nil {
			return HostEntity(addr), nil
		}
		// Bridge broadcast entries sometimes print the MAC with dots
		mac, err := parseMAC(strings.ReplaceAll(dest, ".", ":"))
		if err != nil {
			return Entity{}, &ParseError{Type: ParseErrHardwareAddress, Value: dest, Cause: err}
		}
		return MACEntity(mac), nil

	case strings.Contains(dest, ":"):
		if addr, err := netip.ParseAddr(dest); err == nil && addr.Is6() {
			return HostEntity(addr), nil
		}
		mac, err := parseMAC(dest)
		if err != nil {
			return Entity{}, &ParseError{Type: ParseErrHardwareAddress, Value: dest, Cause: err}
		}
		return MACEntity(mac), nil

	default:
		addr, err := ParseLegacyIPv4(dest)
		if err != nil {
			return Entity{}, err
		}
		return HostEntity(addr), nil
	}
}

// parseZonedAddress parses the address half of an "addr%zone" token as a
// network, treating a bare address as a host.
func parseZonedAddress(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		return parsePrefix(s)
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, &ParseError{Type: ParseErrAddress, Value: s, Cause: err}
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// parsePrefix parses a CIDR literal. IPv4 networks may use netstat's
// shortened form, where trailing zero octets are omitted ("224.0.0/4").
func parsePrefix(s string) (netip.Prefix, error) {
	addr, bits, _ := strings.Cut(s, "/")
	if addr != "" && !strings.Contains(addr, ":") {
		if dots := strings.Count(addr, "."); dots < 3 {
			addr += strings.Repeat(".0", 3-dots)
		}
	}
	prefix, err := netip.ParsePrefix(addr + "/" + bits)
	if err != nil {
		return netip.Prefix{}, &ParseError{Type: ParseErrAddress, Value: s, Cause: err}
	}
	return prefix.Masked(), nil
}

// ParseLegacyIPv4 parses an IPv4 address, accepting the inet_addr(3) forms
// with fewer than four components: "a" is 0.0.0.a, "a.b" is a.0.0.b and
// "a.b.c" is a.b.0.c.
func ParseLegacyIPv4(s string) (netip.Addr, error) {
	if addr, err := netip.ParseAddr(s); err == nil && addr.Is4() {
		return addr, nil
	}

	parts := strings.Split(s, ".")
	octets := make([]byte, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return netip.Addr{}, &ParseError{Type: ParseErrIPv4Component, Value: s, Cause: err}
		}
		octets[i] = byte(v)
	}

	switch len(octets) {
	case 1:
		return netip.AddrFrom4([4]byte{0, 0, 0, octets[0]}), nil
	case 2:
		return netip.AddrFrom4([4]byte{octets[0], 0, 0, octets[1]}), nil
	case 3:
		return netip.AddrFrom4([4]byte{octets[0], octets[1], 0, octets[2]}), nil
	default:
		return netip.Addr{}, &ParseError{Type: ParseErrIPv4ComponentCount, Value: s, Count: len(octets)}
	}
}

// parseMAC parses a colon separated 6-byte hardware address. netstat drops
// leading zeros from each octet ("1:0:5e:0:0:fb"), so single digit groups are
// padded before handing off to net.ParseMAC.
func parseMAC(s string) (net.HardwareAddr, error) {
	groups := strings.Split(s, ":")
	for i, g := range groups {
		if len(g) == 1 {
			groups[i] = "0" + g
		}
	}
	mac, err := net.ParseMAC(strings.Join(groups, ":"))
	if err != nil {
		return nil, err
	}
	if len(mac) != 6 {
		return nil, fmt.Errorf("hardware address %q is %d bytes, want 6", s, len(mac))
	}
	return mac, nil
}
