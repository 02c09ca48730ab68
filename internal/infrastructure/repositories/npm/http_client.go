package npm

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/dnscache"
)

const (
	dnsRefreshInterval = 5 * time.Minute
	requestTimeout     = 60 * time.Second
)

//nolint:gochecknoglobals // one DNS cache is shared by every registry client of the process
var (
	sharedResolver    = &dnscache.Resolver{}
	startResolverOnce sync.Once
)

func startResolverRefresh() {
	startResolverOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(dnsRefreshInterval)
			defer ticker.Stop()
			for range ticker.C {
				sharedResolver.Refresh(true)
			}
		}()
	})
}

// NewHTTPClient returns a client whose dialer resolves hosts through a shared
// DNS cache. A check issues many requests to the same registry host in a burst.
func NewHTTPClient() *http.Client {
	startResolverRefresh()

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, err
				}
				ips, err := sharedResolver.LookupHost(ctx, host)
				if err != nil {
					return nil, err
				}
				var lastErr error
				for _, ip := range ips {
					conn, dialErr := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
					if dialErr == nil {
						return conn, nil
					}
					lastErr = dialErr
				}
				return nil, fmt.Errorf("failed to dial any resolved address of %s: %w", host, lastErr)
			},
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   16,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}
