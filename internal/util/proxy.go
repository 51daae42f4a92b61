// Package util provides helpers shared across the application, currently
// proxy-aware HTTP client setup for outbound Dropbox requests.
package util

import (
	"context"
	"net"
	"net/http"
	"net/url"

	"github.com/SubhanRaj/jitsi-meet/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
)

// ProxyHTTPClient configures the provided HTTP client with proxy settings
// from the configuration. SOCKS5, HTTP, and HTTPS proxies are supported; an
// empty or unparseable proxy URL leaves the client untouched.
func ProxyHTTPClient(cfg *config.Config, httpClient *http.Client) *http.Client {
	if cfg == nil || cfg.ProxyURL == "" {
		return httpClient
	}

	proxyURL, err := url.Parse(cfg.ProxyURL)
	if err != nil {
		log.Errorf("invalid proxy url %q: %v", cfg.ProxyURL, err)
		return httpClient
	}

	var transport *http.Transport
	switch proxyURL.Scheme {
	case "socks5":
		username := proxyURL.User.Username()
		password, _ := proxyURL.User.Password()
		proxyAuth := &proxy.Auth{User: username, Password: password}
		dialer, errSOCKS5 := proxy.SOCKS5("tcp", proxyURL.Host, proxyAuth, proxy.Direct)
		if errSOCKS5 != nil {
			log.Errorf("create SOCKS5 dialer failed: %v", errSOCKS5)
			return httpClient
		}
		transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		}
	case "http", "https":
		transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	if transport != nil {
		httpClient.Transport = transport
	}
	return httpClient
}
