package remote

import (
	"context"
	"errors"
	"net"
	"net/url"
	"syscall"
)

// IsConnectivityError reports whether err is attributable to network
// unavailability rather than a semantic rejection by the server. Only
// connectivity-class failures may be converted into queued pending
// mutations; everything else (validation, authorization, conflicts) must
// surface to the caller, since replaying it later would fail the same way.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrOffline) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	// http.Client.Do wraps transport failures (refused connections, resets,
	// broken pipes) in *url.Error; server responses with error status codes
	// never produce one.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.EHOSTUNREACH,
		syscall.ENETUNREACH,
		syscall.EPIPE,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
