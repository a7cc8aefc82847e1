package routetable

import (
	"net"
	"net/netip"
	"strconv"
)

// Kind is the variant tag of an Entity
type Kind uint8

// Entity kinds
const (
	// KindDefault is the catch-all "default" destination
	KindDefault Kind = iota
	// KindCIDR is an IPv4 or IPv6 network or host
	KindCIDR
	// KindLink is a link-layer marker such as "link#6"
	KindLink
	// KindMAC is a resolved hardware address
	KindMAC
)

// String returns a string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "Default"
	case KindCIDR:
		return "CIDR"
	case KindLink:
		return "Link"
	case KindMAC:
		return "MAC"
	default:
		return "Unknown"
	}
}

// Entity is a destination or gateway as written in a routing table.
// Exactly one of the payloads is meaningful, selected by Kind.
type Entity struct {
	kind   Kind
	prefix netip.Prefix
	link   string
	mac    net.HardwareAddr
}

// DefaultEntity returns the "default" entity
func DefaultEntity() Entity {
	return Entity{kind: KindDefault}
}

// CIDREntity returns a network entity. The prefix should be valid; entities
// built by the parser always are.
func CIDREntity(p netip.Prefix) Entity {
	return Entity{kind: KindCIDR, prefix: p}
}

// HostEntity returns a single-host network entity for addr
func HostEntity(addr netip.Addr) Entity {
	return CIDREntity(netip.PrefixFrom(addr, addr.BitLen()))
}

// LinkEntity returns a link-layer entity
func LinkEntity(name string) Entity {
	return Entity{kind: KindLink, link: name}
}

// MACEntity returns a hardware address entity
func MACEntity(mac net.HardwareAddr) Entity {
	return Entity{kind: KindMAC, mac: mac}
}

// Kind returns the variant tag
func (e Entity) Kind() Kind {
	return e.kind
}

// Prefix returns the network for KindCIDR entities
func (e Entity) Prefix() (netip.Prefix, bool) {
	return e.prefix, e.kind == KindCIDR
}

// Link returns the link name for KindLink entities
func (e Entity) Link() (string, bool) {
	return e.link, e.kind == KindLink
}

// MAC returns the hardware address for KindMAC entities
func (e Entity) MAC() (net.HardwareAddr, bool) {
	return e.mac, e.kind == KindMAC
}

// IsHost reports whether e is a network whose prefix covers exactly one address
func (e Entity) IsHost() bool {
	return e.kind == KindCIDR && e.prefix.IsValid() && e.prefix.IsSingleIP()
}

// Protocol returns the address family of a CIDR entity
func (e Entity) Protocol() (Protocol, bool) {
	if e.kind != KindCIDR || !e.prefix.IsValid() {
		return 0, false
	}
	if e.prefix.Addr().Is4() {
		return ProtocolV4, true
	}
	return ProtocolV6, true
}

// String renders the entity the way netstat prints it
func (e Entity) String() string {
	switch e.kind {
	case KindDefault:
		return "default"
	case KindCIDR:
		if e.IsHost() {
			return e.prefix.Addr().String()
		}
		return e.prefix.String()
	case KindLink:
		return e.link
	case KindMAC:
		return e.mac.String()
	default:
		return "<invalid>"
	}
}

// Destination is an entity with an optional IPv6 zone. The zone is kept for
// display only and never takes part in route matching.
type Destination struct {
	Entity Entity
	Zone   string
}

// String renders the destination, re-inserting the zone after the address
func (d Destination) String() string {
	if d.Zone == "" {
		return d.Entity.String()
	}
	if p, ok := d.Entity.Prefix(); ok && p.IsValid() {
		s := p.Addr().String() + "%" + d.Zone
		if !p.IsSingleIP() {
			s += "/" + strconv.Itoa(p.Bits())
		}
		return s
	}
	return d.Entity.String() + "%" + d.Zone
}
