package routetable

import (
	"fmt"
	"net/netip"
)

// FindRoute returns the route that most precisely matches addr.
//
// Candidates are CIDR destinations containing addr, default routes via a
// router of addr's family, and default routes via a link or hardware address.
// Among them hardware-address destinations beat link destinations, which beat
// networks; networks compare by prefix length and default routes lose to
// everything. Ties keep the earlier route.
func (t *RoutingTable) FindRoute(addr netip.Addr) (RouteEntry, bool) {
	if !addr.IsValid() {
		return RouteEntry{}, false
	}
	var best *RouteEntry
	for i := range t.routes {
		route := &t.routes[i]
		if !matches(route, addr) {
			continue
		}
		if best == nil {
			best = route
			continue
		}
		best = moreSpecific(best, route)
	}
	if best == nil {
		return RouteEntry{}, false
	}
	return *best, true
}

// matches reports whether r is a candidate for addr
func matches(r *RouteEntry, addr netip.Addr) bool {
	switch r.Destination.Entity.Kind() {
	case KindCIDR:
		p, _ := r.Destination.Entity.Prefix()
		return p.Contains(addr)
	case KindDefault:
		switch r.Gateway.Entity.Kind() {
		case KindCIDR:
			// TODO: take the zone into account for IPv6 link-local routers
			if addr.Is4() {
				return r.Protocol == ProtocolV4
			}
			return r.Protocol == ProtocolV6
		case KindLink, KindMAC:
			return true
		default:
			return false
		}
	default:
		return false
	}
}

// moreSpecific returns whichever of a and b is the more precise match
func moreSpecific(a, b *RouteEntry) *RouteEntry {
	switch a.Destination.Entity.Kind() {
	case KindMAC:
		// Already resolved on the local network
		return a
	case KindLink:
		if b.Destination.Entity.Kind() == KindMAC {
			return b
		}
		return a
	case KindCIDR:
		switch b.Destination.Entity.Kind() {
		case KindMAC, KindLink:
			return b
		case KindCIDR:
			if prefixBits(a) >= prefixBits(b) {
				return a
			}
			return b
		default:
			return a
		}
	default:
		if b.Destination.Entity.Kind() == KindDefault {
			return a
		}
		return b
	}
}

// prefixBits returns the prefix length of a CIDR destination. Candidates
// always hold a valid prefix because an invalid one contains no address.
func prefixBits(r *RouteEntry) int {
	p, _ := r.Destination.Entity.Prefix()
	if !p.IsValid() {
		panic(fmt.Sprintf("routetable: comparing route %v with no prefix length", r))
	}
	return p.Bits()
}
