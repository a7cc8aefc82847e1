package routetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeFlag(t *testing.T) {
	known := map[rune]RoutingFlag{
		'1': FlagProto1, '2': FlagProto2, '3': FlagProto3,
		'B': FlagBlackhole, 'b': FlagBroadcast,
		'C': FlagCloning, 'c': FlagPrCloning,
		'D': FlagDynamic, 'G': FlagGateway, 'H': FlagHost,
		'I': FlagIfScope, 'i': FlagIfRef,
		'L': FlagLlInfo, 'M': FlagModified, 'm': FlagMulticast,
		'R': FlagReject, 'r': FlagRouter,
		'S': FlagStatic, 'U': FlagUp, 'W': FlagWasCloned,
		'X': FlagXResolve, 'Y': FlagProxy, 'g': FlagGlobal,
	}

	seen := make(map[RoutingFlag]bool)
	for c, want := range known {
		got := DecodeFlag(c)
		assert.Equal(t, want, got, "flag %q", c)
		assert.Equal(t, byte(c), got.Letter())
		assert.False(t, seen[got], "flag %v decoded twice", got)
		seen[got] = true
	}

	for _, c := range []rune{'Z', 'x', '!', '4', ' ', 'é'} {
		assert.Equal(t, FlagUnknown, DecodeFlag(c), "flag %q", c)
	}
}

func TestParseFlags(t *testing.T) {
	fs := ParseFlags("UGScg")
	assert.Equal(t, 5, fs.Len())
	assert.True(t, fs.Has(FlagUp))
	assert.True(t, fs.Has(FlagGateway))
	assert.True(t, fs.Has(FlagStatic))
	assert.True(t, fs.Has(FlagPrCloning))
	assert.True(t, fs.Has(FlagGlobal))
	assert.False(t, fs.Has(FlagHost))
	assert.False(t, fs.Has(FlagUnknown))

	// duplicates collapse and order does not matter
	assert.Equal(t, ParseFlags("GU"), ParseFlags("UUGG"))

	unknown := ParseFlags("UQZ")
	assert.Equal(t, 2, unknown.Len())
	assert.True(t, unknown.Has(FlagUnknown))

	assert.Equal(t, 0, ParseFlags("").Len())
}

func TestFlagSetString(t *testing.T) {
	assert.Equal(t, "GSUg", ParseFlags("UGSg").String())
	assert.Equal(t, "?U", ParseFlags("U~").String())
	assert.Equal(t, "Gateway", FlagGateway.String())
	assert.Equal(t, "Unknown", RoutingFlag(200).String())
}
