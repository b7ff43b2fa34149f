package rpc

import (
	"net"
	"net/http"
	"strings"
)

// rateLimitKey buckets callers by remote IP. Forwarding headers are ignored
// because they are client controlled.
func rateLimitKey(r *http.Request) string {
	remote := strings.TrimSpace(r.RemoteAddr)
	if remote == "" {
		return "ip:unknown"
	}
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		return "ip:" + remote
	}
	if strings.TrimSpace(host) == "" {
		return "ip:unknown"
	}
	return "ip:" + host
}
