package wireguard

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// ValidateAllowedRanges parses a comma-separated CIDR list such as
// "10.8.0.0/24, fd00::/64". Empty items are ignored; an all-empty input
// yields no prefixes and no error.
func ValidateAllowedRanges(s string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		p, err := netip.ParsePrefix(item)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: must be CIDR notation", item)
		}
		prefixes = append(prefixes, p)
	}
	return prefixes, nil
}

// ValidateDNS parses a comma-separated list of DNS server addresses.
func ValidateDNS(s string) ([]netip.Addr, error) {
	var addrs []netip.Addr
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		a, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("invalid DNS server %q", item)
		}
		addrs = append(addrs, a)
	}
	return addrs, nil
}

// ValidatePort checks an optional port given as text. Empty is allowed.
func ValidatePort(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid port %q: must be between 1 and 65535", s)
	}
	return nil
}
