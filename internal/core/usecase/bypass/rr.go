package bypass

import (
	"net"

	"github.com/miekg/dns"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
)

// ToRR converts an answer into resource records owned by name
func ToRR(name string, records []domain.InetRecord) []dns.RR {
	owner := dns.Fqdn(name)
	rrs := make([]dns.RR, 0, len(records))

	for _, rec := range records {
		hdr := dns.RR_Header{Name: owner, Class: dns.ClassINET, Ttl: uint32(rec.TTL)}

		switch {
		case rec.IsAlias():
			hdr.Rrtype = dns.TypeCNAME
			rrs = append(rrs, &dns.CNAME{Hdr: hdr, Target: dns.Fqdn(rec.CNAME)})
		case rec.IsInet6():
			hdr.Rrtype = dns.TypeAAAA
			rrs = append(rrs, &dns.AAAA{Hdr: hdr, AAAA: net.IP(rec.Address.AsSlice())})
		default:
			hdr.Rrtype = dns.TypeA
			ip := rec.Address.Unmap().As4()
			rrs = append(rrs, &dns.A{Hdr: hdr, A: net.IP(ip[:])})
		}
	}

	return rrs
}
