package domain

import (
	"context"
	"net/netip"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var ErrDomainNotFound = errors.New("domain not found")

// Lookuper resolves a host name to its addresses.
type Lookuper interface {
	LookupIP(ctx context.Context, domain string) (addrs []netip.Addr, err error)
}

// MapLookuper answers from a fixed table, like a hosts file.
// Names are matched case-insensitively.
type MapLookuper struct {
	mu  sync.RWMutex
	set map[string][]netip.Addr
}

var _ Lookuper = (*MapLookuper)(nil)

func NewMapLookuper(set map[string][]netip.Addr) *MapLookuper {
	m := &MapLookuper{set: make(map[string][]netip.Addr, len(set))}
	for domain, addrs := range set {
		m.Set(domain, addrs)
	}
	return m
}

func (m *MapLookuper) LookupIP(ctx context.Context, domain string) (addrs []netip.Addr, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	addrs, ok := m.set[normalize(domain)]
	if !ok {
		return nil, errors.Wrapf(ErrDomainNotFound, "%q", domain)
	}
	return append([]netip.Addr(nil), addrs...), nil
}

// Set replaces the addresses of domain. Empty addrs are ignored.
func (m *MapLookuper) Set(domain string, addrs []netip.Addr) {
	if len(addrs) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.set[normalize(domain)] = append([]netip.Addr(nil), addrs...)
}

func (m *MapLookuper) Del(domain string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.set, normalize(domain))
}

// normalize drops the root label dot and folds case.
func normalize(domain string) string {
	return strings.ToLower(strings.TrimSuffix(domain, "."))
}
