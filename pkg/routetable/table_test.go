package routetable

import (
	_ "embed"
	"errors"
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/sample-table.txt
var sampleTable string

func mustParse(t *testing.T, snapshot string) *RoutingTable {
	t.Helper()
	table, err := Parse(snapshot)
	require.NoError(t, err)
	return table
}

func TestParse_SampleTable(t *testing.T) {
	table := mustParse(t, sampleTable)

	assert.Equal(t, 26, table.Len())
	assert.Len(t, table.RoutesFor(ProtocolV4), 15)
	assert.Len(t, table.RoutesFor(ProtocolV6), 11)

	routes := table.Routes()
	assert.Equal(t, "default", routes[0].Destination.String())
	assert.Equal(t, "ff02::%lo0/32", routes[len(routes)-1].Destination.String())

	// Routes hands out a copy
	routes[0].Interface = "changed"
	assert.Equal(t, "en0", table.Routes()[0].Interface)

	var expiring []string
	for _, r := range routes {
		if r.HasExpiry {
			expiring = append(expiring, r.Destination.String())
		}
	}
	assert.Equal(t, []string{"192.168.1.1", "fe80::1%en0"}, expiring)
}

func TestParse_DefaultGateways(t *testing.T) {
	table := mustParse(t, sampleTable)

	tests := []struct {
		iface string
		want  []string
	}{
		{"en0", []string{"192.168.1.1", "fe80::1"}},
		{"utun3", []string{"10.8.0.1"}},
		{"utun0", []string{"fe80::"}},
	}

	for _, tt := range tests {
		t.Run(tt.iface, func(t *testing.T) {
			gws, ok := table.DefaultGateways(tt.iface)
			require.True(t, ok)
			var got []string
			for _, gw := range gws {
				got = append(got, gw.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := table.DefaultGateways("lo0")
	assert.False(t, ok)
	_, ok = table.DefaultGateways("en9")
	assert.False(t, ok)

	assert.Equal(t, []string{"en0", "utun0", "utun3"}, table.Interfaces())
}

func TestParse_DefaultViaLinkIsNotIndexed(t *testing.T) {
	table := mustParse(t, `Internet:
Destination Gateway Flags Netif Expire
default link#4 UCS en5 !
default 10.0.0.0/8 UGS en6 !
`)
	assert.Equal(t, 2, table.Len())
	assert.Empty(t, table.Interfaces())
}

func TestParse_Empty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "Routing tables\n", "Routing tables\n\nInternet:\nDestination Gateway Flags Netif Expire\n"} {
		table := mustParse(t, input)
		assert.Zero(t, table.Len())
	}
}

func TestParse_CRLF(t *testing.T) {
	table := mustParse(t, strings.ReplaceAll(sampleTable, "\n", "\r\n"))
	assert.Equal(t, 26, table.Len())
}

func TestParse_MissingHeaders(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		section string
	}{
		{"IPv4 marker at end", sampleTable + "Internet:\n", SectionIPv4},
		{"IPv6 marker at end", sampleTable + "Internet6:\n", SectionIPv6},
		{"no trailing newline", "Routing tables\n\nInternet:", SectionIPv4},
		{"marker followed by marker", "Internet:\nInternet6:\nDestination Gateway Flags Netif\n", SectionIPv4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Parse(tt.input)
			assert.Nil(t, table)
			require.True(t, errors.Is(err, ErrMissingHeaders), "got %v", err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.section, pe.Value)
			assert.Contains(t, err.Error(), tt.section)
		})
	}
}

func TestParse_EntryBeforeProtocol(t *testing.T) {
	table, err := Parse("extra stuff\n" + sampleTable)
	assert.Nil(t, table)
	assert.True(t, errors.Is(err, ErrEntryBeforeProtocol), "got %v", err)
}

func TestParse_BadEntry(t *testing.T) {
	table, err := Parse(sampleTable + "How now brown cow.\n")
	assert.Nil(t, table)
	require.Error(t, err)

	var le *LineError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 34, le.Line)
	assert.Equal(t, "How now brown cow.", le.Text)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ParseErrIPv4Component, pe.Type)
	assert.Equal(t, "How", pe.Value)
}

func TestParseReader(t *testing.T) {
	table, err := ParseReader(strings.NewReader(sampleTable))
	require.NoError(t, err)
	assert.Equal(t, 26, table.Len())
}

func BenchmarkParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Parse(sampleTable); err != nil {
			b.Fatal(err)
		}
	}
}

func addrs(ss ...string) []netip.Addr {
	out := make([]netip.Addr, len(ss))
	for i, s := range ss {
		out[i] = netip.MustParseAddr(s)
	}
	return out
}
