package helpers

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsAddressValid checks if the provided string is a valid EVM-style address
// It verifies:
// 1. The address is exactly 42 characters long (including 0x prefix)
// 2. The address starts with "0x"
// 3. The remaining 40 characters are valid hexadecimal
func IsAddressValid(address string) bool {
	// Check length
	if len(address) != 42 {
		return false
	}

	// Check "0x" prefix
	if !strings.HasPrefix(address, "0x") {
		return false
	}

	// Check if the address contains only hex characters after the 0x prefix
	for _, c := range address[2:] {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}

	return true
}

// ParseAddress parses a 0x-prefixed hex string into an address. It checks
// format only; the zero address is accepted here so the domain layer can
// report its own validation error for zero beneficiaries.
func ParseAddress(address string) (common.Address, error) {
	if !IsAddressValid(address) {
		return common.Address{}, fmt.Errorf("invalid address format: %q", address)
	}
	return common.HexToAddress(address), nil
}
