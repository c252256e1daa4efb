package token

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/pkg/logger"
	"github.com/kondukto-io/dspolicy/pkg/protector"
)

// Prefix introduces the token in redirect query strings
const Prefix = "t0="

const passphrase = "HajUsyac7"

const (
	ipLen    = 4
	ipTIDLen = ipLen + 8 + 4
)

// Encoder builds transaction tokens. One encoder is shared by every
// delivery service of the process: the cipher is created on first use
// and the request id counter is common to all requests.
type Encoder struct {
	protector func() (*protector.Protector, error)
	counter   atomic.Uint32
	now       func() time.Time
}

// New returns an encoder keyed with the built-in passphrase
func New() *Encoder {
	return newEncoder(passphrase, time.Now)
}

func newEncoder(secret string, now func() time.Time) *Encoder {
	return &Encoder{
		protector: sync.OnceValues(func() (*protector.Protector, error) {
			return protector.New(secret)
		}),
		now: now,
	}
}

// Encode returns "t0=<token>" for the request, or "" when the mode is
// NONE, the client address is unusable or encryption fails.
func (e *Encoder) Encode(mode domain.TransInfoType, request domain.Request) string {
	if mode == domain.TransInfoNone || mode == "" {
		return ""
	}

	ipBytes, ok := clientIPBytes(request.ClientIP, mode)
	if !ok {
		return ""
	}

	p, err := e.protector()
	if err != nil {
		logger.Log.Warnf("failed to initialize token cipher: %v", err)
		return ""
	}

	payload := make([]byte, 0, ipTIDLen)
	payload = append(payload, ipBytes...)
	if mode == domain.TransInfoIPTID {
		payload = binary.BigEndian.AppendUint64(payload, uint64(e.now().UnixMilli()))
		payload = binary.BigEndian.AppendUint32(payload, e.counter.Add(1))
	}

	encoded, err := p.EncryptForURL(payload)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"clientIp": request.ClientIP,
			"mode":     mode,
		}).Warnf("failed to encrypt transaction info: %v", err)
		return ""
	}

	return Prefix + encoded
}

func clientIPBytes(clientIP string, mode domain.TransInfoType) ([]byte, bool) {
	addr, err := netip.ParseAddr(clientIP)
	if err != nil {
		logger.Log.Debugf("unusable client ip for transaction info [%s]: %v", clientIP, err)
		return nil, false
	}

	addr = addr.Unmap()
	if addr.Is4() {
		b := addr.As4()
		return b[:], true
	}

	if mode == domain.TransInfoIP {
		return nil, false
	}

	return make([]byte, ipLen), true
}

// Info is the decoded content of a token
type Info struct {
	ClientIP  netip.Addr
	Timestamp time.Time
	RequestID uint32
	// HasTID is false for tokens built in IP mode
	HasTID bool
}

// Decode reverses Encode. The "t0=" prefix is optional.
func (e *Encoder) Decode(token string) (Info, error) {
	p, err := e.protector()
	if err != nil {
		return Info{}, fmt.Errorf("failed to initialize token cipher: %w", err)
	}

	payload, err := p.DecryptFromURL(strings.TrimPrefix(token, Prefix))
	if err != nil {
		return Info{}, err
	}

	var info Info
	switch len(payload) {
	case ipLen, ipTIDLen:
	default:
		return Info{}, errors.New("unexpected token payload length")
	}

	info.ClientIP = netip.AddrFrom4([4]byte(payload[:ipLen]))
	if len(payload) == ipTIDLen {
		info.Timestamp = time.UnixMilli(int64(binary.BigEndian.Uint64(payload[ipLen : ipLen+8])))
		info.RequestID = binary.BigEndian.Uint32(payload[ipLen+8:])
		info.HasTID = true
	}

	return info, nil
}

// Placeholder reports whether the decoded address is the IPv6 placeholder
func (i Info) Placeholder() bool {
	return i.ClientIP == netip.IPv4Unspecified()
}
