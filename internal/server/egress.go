package server

import (
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/menta2k/image-slicer/pkg/types"
)

var errBlockedAddress = types.InvalidArgument("URL host is not allowed")

// PublicHTTPClient returns a client for URL inputs that will only connect to
// public unicast addresses. The check runs on the resolved address at dial
// time, so host names and redirects are covered too.
func PublicHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Control: func(network, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return fmt.Errorf("dial %s: %w", address, err)
			}
			if ip := net.ParseIP(host); ip == nil || !isPublic(ip) {
				return errBlockedAddress
			}
			return nil
		},
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	// a proxy would be dialed in place of the target
	transport.Proxy = nil

	return &http.Client{Timeout: timeout, Transport: transport}
}

func isPublic(ip net.IP) bool {
	return !(ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified())
}
