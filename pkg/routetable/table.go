package routetable

import (
	"fmt"
	"io"
	"net/netip"
	"slices"
	"sort"
	"strings"
)

// Section markers and banner of `netstat -rn` output
const (
	SectionIPv4  = "Internet:"
	SectionIPv6  = "Internet6:"
	bannerPrefix = "Routing table"
)

// RoutingTable is a parsed routing table snapshot. It is never modified after
// Parse returns, so it is safe for concurrent use.
type RoutingTable struct {
	routes []RouteEntry
	// interface name -> default routers, in snapshot order
	gateways map[string][]netip.Addr
}

// ParseReader reads a complete snapshot from r and parses it
func ParseReader(r io.Reader) (*RoutingTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read routing table: %w", err)
	}
	return Parse(string(data))
}

// Parse builds a RoutingTable from complete `netstat -rn` output as printed
// on macOS and the BSDs. Any malformed line fails the whole parse.
func Parse(snapshot string) (*RoutingTable, error) {
	lines := strings.Split(snapshot, "\n")
	table := &RoutingTable{gateways: make(map[string][]netip.Addr)}

	var proto Protocol
	var headers []string

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSuffix(lines[i], "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, bannerPrefix) {
			continue
		}

		if p, ok := sectionProtocol(line); ok {
			proto = p
			// Next line holds the column headers
			if i+1 >= len(lines) {
				return nil, &ParseError{Type: ParseErrMissingHeaders, Value: line}
			}
			next := strings.TrimSuffix(lines[i+1], "\r")
			if _, isSection := sectionProtocol(next); isSection || strings.TrimSpace(next) == "" {
				return nil, &ParseError{Type: ParseErrMissingHeaders, Value: line}
			}
			headers = strings.Fields(next)
			i++
			continue
		}

		if proto == 0 {
			return nil, ErrEntryBeforeProtocol
		}

		route, err := ParseRouteEntry(proto, line, headers)
		if err != nil {
			return nil, &LineError{Line: i + 1, Text: line, Err: err}
		}
		table.add(route)
	}

	return table, nil
}

// add appends route and, for default routes via a single router, records the
// router under the route's interface.
func (t *RoutingTable) add(route RouteEntry) {
	if route.Destination.Entity.Kind() == KindDefault && route.Gateway.Entity.IsHost() {
		p, _ := route.Gateway.Entity.Prefix()
		t.gateways[route.Interface] = append(t.gateways[route.Interface], p.Addr())
	}
	t.routes = append(t.routes, route)
}

func sectionProtocol(line string) (Protocol, bool) {
	switch line {
	case SectionIPv4:
		return ProtocolV4, true
	case SectionIPv6:
		return ProtocolV6, true
	default:
		return 0, false
	}
}

// Len returns the number of routes in the table
func (t *RoutingTable) Len() int {
	return len(t.routes)
}

// Routes returns a copy of all routes in snapshot order
func (t *RoutingTable) Routes() []RouteEntry {
	return slices.Clone(t.routes)
}

// RoutesFor returns the routes of one protocol section, in snapshot order
func (t *RoutingTable) RoutesFor(proto Protocol) []RouteEntry {
	var routes []RouteEntry
	for _, r := range t.routes {
		if r.Protocol == proto {
			routes = append(routes, r)
		}
	}
	return routes
}

// DefaultGateways returns the default routers reachable through the named
// interface, in snapshot order.
func (t *RoutingTable) DefaultGateways(iface string) ([]netip.Addr, bool) {
	gws, ok := t.gateways[iface]
	if !ok {
		return nil, false
	}
	return slices.Clone(gws), true
}

// Interfaces returns the sorted names of interfaces that have a default router
func (t *RoutingTable) Interfaces() []string {
	names := make([]string, 0, len(t.gateways))
	for name := range t.gateways {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
