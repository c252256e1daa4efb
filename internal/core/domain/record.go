package domain

import (
	"net/netip"
	"strconv"
)

// InetRecord is one record of a DNS fallback answer: either an address or
// a CNAME target.
type InetRecord struct {
	Address netip.Addr
	CNAME   string
	TTL     int
}

// NewAddressRecord returns an address record
func NewAddressRecord(addr netip.Addr, ttl int) InetRecord {
	return InetRecord{Address: addr, TTL: ttl}
}

// NewCNAMERecord returns a CNAME record
func NewCNAMERecord(target string, ttl int) InetRecord {
	return InetRecord{CNAME: target, TTL: ttl}
}

// IsAlias reports whether the record is a CNAME
func (r InetRecord) IsAlias() bool {
	return r.CNAME != ""
}

// IsInet6 reports whether the record carries an IPv6 address
func (r InetRecord) IsInet6() bool {
	return !r.IsAlias() && r.Address.Is6() && !r.Address.Is4In6()
}

// String implements fmt.Stringer
func (r InetRecord) String() string {
	value := r.Address.String()
	if r.IsAlias() {
		value = r.CNAME
	}

	return "InetRecord{" + value + ", ttl=" + strconv.Itoa(r.TTL) + "}"
}
