package util

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"
)

var (
	// ErrTooLarge is returned when a response body exceeds the caller's limit.
	ErrTooLarge = errors.New("response body too large")
	// ErrForbiddenAddress is returned when a Fetcher that only reaches public
	// hosts is asked to dial anything else.
	ErrForbiddenAddress = errors.New("address not allowed")
)

const fetchTimeout = 12 * time.Second

// Fetcher downloads response bodies over HTTP.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher. With publicOnly set, connections to
// loopback, private, link-local and other non-public addresses are refused
// after DNS resolution, and proxy settings from the environment are ignored.
func NewFetcher(publicOnly bool) *Fetcher {
	if !publicOnly {
		return &Fetcher{client: &http.Client{Timeout: fetchTimeout}}
	}
	dialer := &net.Dialer{
		Timeout: 5 * time.Second,
		Control: func(_, address string, _ syscall.RawConn) error {
			return checkPublic(address)
		},
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &Fetcher{client: &http.Client{Timeout: fetchTimeout, Transport: transport}}
}

var defaultFetcher = NewFetcher(false)

// GetBytes fetches url with an unrestricted client. See Fetcher.GetBytes.
func GetBytes(ctx context.Context, url string, limit int64) ([]byte, error) {
	return defaultFetcher.GetBytes(ctx, url, limit)
}

// GetBytes fetches url and returns the body. A limit above zero caps the body
// size; larger bodies fail with ErrTooLarge.
func (f *Fetcher) GetBytes(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if limit > 0 {
		body = io.LimitReader(resp.Body, limit+1)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(b)) > limit {
		return nil, fmt.Errorf("get %s: %w", url, ErrTooLarge)
	}
	return b, nil
}

// shared address space (RFC 6598), used by carrier-grade NAT
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

func checkPublic(address string) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, address)
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, address)
	}
	if !IsPublicAddr(ip) {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, ip)
	}
	return nil
}

// IsPublicAddr reports whether ip is a globally routable unicast address.
func IsPublicAddr(ip netip.Addr) bool {
	ip = ip.Unmap()
	switch {
	case !ip.IsValid(),
		ip.IsUnspecified(),
		ip.IsLoopback(),
		ip.IsPrivate(),
		ip.IsLinkLocalUnicast(),
		ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(),
		ip.IsMulticast(),
		sharedAddressSpace.Contains(ip):
		return false
	}
	return ip.IsGlobalUnicast()
}
