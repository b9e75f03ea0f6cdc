package gbp

import (
	"strings"

	"google.golang.org/api/mybusinessbusinessinformation/v1"
)

// FormatAddress flattens a storefront address into one display line.
func FormatAddress(addr *mybusinessbusinessinformation.PostalAddress) string {
	if addr == nil {
		return ""
	}

	parts := make([]string, 0, len(addr.AddressLines)+2)
	for _, line := range append(append([]string{}, addr.AddressLines...), addr.Locality, addr.PostalCode) {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}

	return strings.Join(parts, ", ")
}
