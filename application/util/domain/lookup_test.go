package domain

import (
	"context"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LookuperTestSuite struct {
	suite.Suite

	initial  map[string][]netip.Addr
	lookuper *MapLookuper
}

func TestMapLookuperTestSuite(t *testing.T) {
	suite.Run(t, new(LookuperTestSuite))
}

func (s *LookuperTestSuite) SetupTest() {
	s.initial = map[string][]netip.Addr{
		"localhost":   {netip.MustParseAddr("127.0.0.1")},
		"example.com": {netip.MustParseAddr("192.0.2.1"), netip.MustParseAddr("2001:db8::1")},
	}
	s.lookuper = NewMapLookuper(s.initial)
}

func (s *LookuperTestSuite) TestLookup() {
	testcases := []struct {
		desc     string
		domain   string
		expected []netip.Addr
		wantErr  error
	}{
		{desc: "single", domain: "localhost", expected: s.initial["localhost"]},
		{desc: "multiple", domain: "example.com", expected: s.initial["example.com"]},
		{desc: "case and root label", domain: "Example.COM.", expected: s.initial["example.com"]},
		{desc: "non-existent", domain: "non-existent.com", wantErr: ErrDomainNotFound},
	}

	for _, tc := range testcases {
		s.Run(tc.desc, func() {
			addrs, err := s.lookuper.LookupIP(context.Background(), tc.domain)
			if tc.wantErr != nil {
				s.ErrorIs(err, tc.wantErr)
				s.Nil(addrs)
				return
			}
			s.NoError(err)
			s.Equal(tc.expected, addrs)
		})
	}
}

func (s *LookuperTestSuite) TestLookupInitCopied() {
	s.initial["localhost"][0] = netip.MustParseAddr("10.0.0.1")

	addrs, err := s.lookuper.LookupIP(context.Background(), "localhost")
	s.NoError(err)
	s.Equal([]netip.Addr{netip.MustParseAddr("127.0.0.1")}, addrs)
}

func (s *LookuperTestSuite) TestSetAndDel() {
	ctx := context.Background()

	s.lookuper.Set("new.example", []netip.Addr{netip.MustParseAddr("192.0.2.7")})
	addrs, err := s.lookuper.LookupIP(ctx, "new.example")
	s.NoError(err)
	s.Equal([]netip.Addr{netip.MustParseAddr("192.0.2.7")}, addrs)

	// Empty addresses do not remove an entry.
	s.lookuper.Set("new.example", nil)
	_, err = s.lookuper.LookupIP(ctx, "new.example")
	s.NoError(err)

	s.lookuper.Del("NEW.example")
	_, err = s.lookuper.LookupIP(ctx, "new.example")
	s.ErrorIs(err, ErrDomainNotFound)
}
