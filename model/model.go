package model

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Sequence issues strictly increasing, prefixed identifiers such as TXN1001.
// Sequences are owned by the service that allocates from them; there is no
// package-level counter state.
type Sequence struct {
	prefix string
	n      atomic.Int64
}

// NewSequence creates a sequence that starts issuing at seed+1.
func NewSequence(prefix string, seed int64) *Sequence {
	s := &Sequence{prefix: prefix}
	s.n.Store(seed)
	return s
}

// Next returns the next identifier and its numeric position in the sequence.
func (s *Sequence) Next() (string, int64) {
	n := s.n.Add(1)
	return fmt.Sprintf("%s%d", s.prefix, n), n
}

// GenerateWalletAddress produces a 0x-prefixed 40-hex-character wallet
// address for self-registered accounts.
func GenerateWalletAddress() string {
	raw := strings.ReplaceAll(uuid.New().String()+uuid.New().String(), "-", "")
	return "0x" + raw[:40]
}

// MinAddressLength is the shortest recipient address the ledger accepts.
const MinAddressLength = 10

// ValidAddress reports whether an address is syntactically acceptable as a
// transfer recipient. Addresses shorter than MinAddressLength are rejected;
// anything longer is allowed because transfers to wallets outside the
// directory are valid external transfers.
func ValidAddress(address string) bool {
	return len(address) >= MinAddressLength
}
