package routetable

import (
	"strings"
)

// RoutingFlag is a single-letter route attribute from the Flags column
type RoutingFlag uint8

// Routing flag constants, see netstat(1)
const (
	FlagUnknown RoutingFlag = iota
	FlagProto1              // 1
	FlagProto2              // 2
	FlagProto3              // 3
	FlagBlackhole           // B
	FlagBroadcast           // b
	FlagCloning             // C
	FlagPrCloning           // c
	FlagDynamic             // D
	FlagGateway             // G
	FlagHost                // H
	FlagIfScope             // I
	FlagIfRef               // i
	FlagLlInfo              // L
	FlagModified            // M
	FlagMulticast           // m
	FlagReject              // R
	FlagRouter              // r
	FlagStatic              // S
	FlagUp                  // U
	FlagWasCloned           // W
	FlagXResolve            // X
	FlagProxy               // Y
	FlagGlobal              // g

	flagCount
)

var flagLetters = [flagCount]byte{
	FlagUnknown:   '?',
	FlagProto1:    '1',
	FlagProto2:    '2',
	FlagProto3:    '3',
	FlagBlackhole: 'B',
	FlagBroadcast: 'b',
	FlagCloning:   'C',
	FlagPrCloning: 'c',
	FlagDynamic:   'D',
	FlagGateway:   'G',
	FlagHost:      'H',
	FlagIfScope:   'I',
	FlagIfRef:     'i',
	FlagLlInfo:    'L',
	FlagModified:  'M',
	FlagMulticast: 'm',
	FlagReject:    'R',
	FlagRouter:    'r',
	FlagStatic:    'S',
	FlagUp:        'U',
	FlagWasCloned: 'W',
	FlagXResolve:  'X',
	FlagProxy:     'Y',
	FlagGlobal:    'g',
}

var flagNames = [flagCount]string{
	FlagUnknown:   "Unknown",
	FlagProto1:    "Proto1",
	FlagProto2:    "Proto2",
	FlagProto3:    "Proto3",
	FlagBlackhole: "Blackhole",
	FlagBroadcast: "Broadcast",
	FlagCloning:   "Cloning",
	FlagPrCloning: "PrCloning",
	FlagDynamic:   "Dynamic",
	FlagGateway:   "Gateway",
	FlagHost:      "Host",
	FlagIfScope:   "IfScope",
	FlagIfRef:     "IfRef",
	FlagLlInfo:    "LlInfo",
	FlagModified:  "Modified",
	FlagMulticast: "Multicast",
	FlagReject:    "Reject",
	FlagRouter:    "Router",
	FlagStatic:    "Static",
	FlagUp:        "Up",
	FlagWasCloned: "WasCloned",
	FlagXResolve:  "XResolve",
	FlagProxy:     "Proxy",
	FlagGlobal:    "Global",
}

// DecodeFlag maps a Flags column character to its routing flag.
// Characters outside the known table decode to FlagUnknown.
func DecodeFlag(c rune) RoutingFlag {
	switch c {
	case '1':
		return FlagProto1
	case '2':
		return FlagProto2
	case '3':
		return FlagProto3
	case 'B':
		return FlagBlackhole
	case 'C':
		return FlagCloning
	case 'D':
		return FlagDynamic
	case 'G':
		return FlagGateway
	case 'H':
		return FlagHost
	case 'I':
		return FlagIfScope
	case 'L':
		return FlagLlInfo
	case 'M':
		return FlagModified
	case 'R':
		return FlagReject
	case 'S':
		return FlagStatic
	case 'U':
		return FlagUp
	case 'W':
		return FlagWasCloned
	case 'X':
		return FlagXResolve
	case 'Y':
		return FlagProxy
	case 'b':
		return FlagBroadcast
	case 'c':
		return FlagPrCloning
	case 'g':
		return FlagGlobal
	case 'i':
		return FlagIfRef
	case 'm':
		return FlagMulticast
	case 'r':
		return FlagRouter
	default:
		return FlagUnknown
	}
}

// String returns the flag name
func (f RoutingFlag) String() string {
	if f >= flagCount {
		return flagNames[FlagUnknown]
	}
	return flagNames[f]
}

// Letter returns the Flags column character for f
func (f RoutingFlag) Letter() byte {
	if f >= flagCount {
		return flagLetters[FlagUnknown]
	}
	return flagLetters[f]
}

// FlagSet is an unordered set of routing flags
type FlagSet uint32

// ParseFlags decodes every character of a Flags column into a set
func ParseFlags(s string) FlagSet {
	var fs FlagSet
	for _, c := range s {
		fs = fs.With(DecodeFlag(c))
	}
	return fs
}

// With returns a copy of fs that also contains f
func (fs FlagSet) With(f RoutingFlag) FlagSet {
	if f >= flagCount {
		f = FlagUnknown
	}
	return fs | 1<<f
}

// Has reports whether f is in the set
func (fs FlagSet) Has(f RoutingFlag) bool {
	return f < flagCount && fs&(1<<f) != 0
}

// Len returns the number of distinct flags in the set
func (fs FlagSet) Len() int {
	n := 0
	for f := RoutingFlag(0); f < flagCount; f++ {
		if fs.Has(f) {
			n++
		}
	}
	return n
}

// Flags returns the members of the set in declaration order
func (fs FlagSet) Flags() []RoutingFlag {
	var flags []RoutingFlag
	for f := RoutingFlag(0); f < flagCount; f++ {
		if fs.Has(f) {
			flags = append(flags, f)
		}
	}
	return flags
}

// String renders the set as Flags column letters
func (fs FlagSet) String() string {
	var b strings.Builder
	for _, f := range fs.Flags() {
		b.WriteByte(f.Letter())
	}
	return b.String()
}
