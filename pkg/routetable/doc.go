// Package routetable parses the text of a `netstat -rn` routing table into a
// queryable model and answers which route would carry traffic to an address.
//
// The package works purely on text: obtaining the snapshot is up to the
// caller. A parsed RoutingTable is immutable and may be shared between
// goroutines without locking.
//
//	table, err := routetable.Parse(output)
//	if err != nil {
//		return err
//	}
//	if route, ok := table.FindRoute(netip.MustParseAddr("1.1.1.1")); ok {
//		fmt.Printf("%s via %s\n", route.Gateway, route.Interface)
//	}
//
// IPv6 zone identifiers are parsed and kept on each Destination but are not
// consulted when matching routes.
package routetable
