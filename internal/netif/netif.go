package netif

import "strings"

// Kind is a coarse classification of a network interface by its name
type Kind int

const (
	Other Kind = iota
	Physical
	Tunnel
	Loopback
	Virtual
)

func (k Kind) String() string {
	switch k {
	case Physical:
		return "physical"
	case Tunnel:
		return "tunnel"
	case Loopback:
		return "loopback"
	case Virtual:
		return "virtual"
	default:
		return "other"
	}
}

var (
	tunnelPrefixes   = []string{"utun", "tun", "tap", "ppp", "ipsec", "wg", "gif", "stf"}
	virtualPrefixes  = []string{"awdl", "llw", "bridge", "vmenet", "anpi", "ap", "docker", "veth", "virbr", "br-"}
	physicalPrefixes = []string{"en", "eth", "wl"}
)

// Classify guesses the kind of an interface from naming conventions used on
// macOS, the BSDs and Linux
func Classify(name string) Kind {
	if name == "" {
		return Other
	}
	if strings.HasPrefix(name, "lo") {
		return Loopback
	}
	if hasAnyPrefix(name, tunnelPrefixes) {
		return Tunnel
	}
	if hasAnyPrefix(name, virtualPrefixes) {
		return Virtual
	}
	if hasAnyPrefix(name, physicalPrefixes) {
		return Physical
	}
	return Other
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
