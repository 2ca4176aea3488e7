package mqttlite

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/net/proxy"
)

// ProxyDialer tunnels broker connections through an HTTP CONNECT or SOCKS5
// proxy.
type ProxyDialer struct {
	proxyURL *url.URL
	username string
	password string
	forward  net.Dialer
}

// NewProxyDialer creates a proxy dialer from a proxy URL.
// Supported schemes: http, https (HTTP CONNECT), socks5, socks5h.
// Credentials embedded in the URL are used when username is empty.
func NewProxyDialer(proxyURL, username, password string) (*ProxyDialer, error) {
	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}

	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %q", u.Scheme)
	}

	if username == "" && u.User != nil {
		username = u.User.Username()
		password, _ = u.User.Password()
	}

	return &ProxyDialer{
		proxyURL: u,
		username: username,
		password: password,
	}, nil
}

// DialContext connects to addr through the proxy.
func (d *ProxyDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	if d.proxyURL.Scheme == "socks5" || d.proxyURL.Scheme == "socks5h" {
		return d.dialSOCKS5(ctx, network, addr)
	}
	return d.dialHTTPConnect(ctx, addr)
}

func (d *ProxyDialer) proxyAddr(defaultPort string) string {
	if d.proxyURL.Port() != "" {
		return d.proxyURL.Host
	}
	return net.JoinHostPort(d.proxyURL.Hostname(), defaultPort)
}

func (d *ProxyDialer) dialHTTPConnect(ctx context.Context, targetAddr string) (net.Conn, error) {
	defaultPort := "8080"
	if d.proxyURL.Scheme == "https" {
		defaultPort = "443"
	}

	conn, err := d.forward.DialContext(ctx, "tcp", d.proxyAddr(defaultPort))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to proxy: %w", err)
	}

	req := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: targetAddr},
		Host:   targetAddr,
		Header: make(http.Header),
	}
	if d.username != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(d.username + ":" + d.password))
		req.Header.Set("Proxy-Authorization", "Basic "+creds)
	}

	if err := req.Write(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to send CONNECT request: %w", err)
	}

	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, req)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read CONNECT response: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		conn.Close()
		return nil, fmt.Errorf("proxy CONNECT failed: %s", resp.Status)
	}

	// The proxy may have sent tunnelled bytes along with its response.
	if br.Buffered() > 0 {
		return &bufferedConn{Conn: conn, r: br}, nil
	}

	return conn, nil
}

func (d *ProxyDialer) dialSOCKS5(ctx context.Context, network, targetAddr string) (net.Conn, error) {
	var auth *proxy.Auth
	if d.username != "" {
		auth = &proxy.Auth{User: d.username, Password: d.password}
	}

	dialer, err := proxy.SOCKS5("tcp", d.proxyAddr("1080"), auth, &d.forward)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	var conn net.Conn
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		conn, err = cd.DialContext(ctx, network, targetAddr)
	} else {
		conn, err = dialer.Dial(network, targetAddr)
	}
	if err != nil {
		return nil, fmt.Errorf("SOCKS5 dial failed: %w", err)
	}

	return conn, nil
}

// bufferedConn replays bytes read ahead while parsing a proxy response.
type bufferedConn struct {
	net.Conn
	r *bufio.Reader
}

func (c *bufferedConn) Read(b []byte) (int, error) {
	return c.r.Read(b)
}

// ProxyFromEnvironment returns the proxy URL for a broker at hostPort reached
// over the given transport, based on HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
// Returns nil if no proxy should be used.
func ProxyFromEnvironment(transport, hostPort string) (*url.URL, error) {
	host, _, err := net.SplitHostPort(hostPort)
	if err != nil {
		host = hostPort
	}

	if bypassProxy(host, lookupEnv("NO_PROXY")) {
		return nil, nil
	}

	var proxyEnv string
	switch transport {
	case TransportTLS, TransportWSS:
		proxyEnv = lookupEnv("HTTPS_PROXY")
	}

	if proxyEnv == "" {
		proxyEnv = lookupEnv("HTTP_PROXY")
	}

	if proxyEnv == "" {
		return nil, nil
	}

	return url.Parse(proxyEnv)
}

// lookupEnv reads an upper-case variable, falling back to its lower-case form.
func lookupEnv(name string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return os.Getenv(strings.ToLower(name))
}

func bypassProxy(host, noProxy string) bool {
	for _, pattern := range strings.Split(noProxy, ",") {
		pattern = strings.TrimSpace(pattern)
		switch {
		case pattern == "":
			continue
		case pattern == "*":
			return true
		case strings.HasPrefix(pattern, "."):
			if strings.HasSuffix(host, pattern) || host == pattern[1:] {
				return true
			}
		case host == pattern || strings.HasSuffix(host, "."+pattern):
			return true
		}
	}
	return false
}

// ProxyEnvironment is the Config.Proxy value that selects the proxy from the
// environment.
const ProxyEnvironment = "env"

// resolveProxy returns a ProxyDialer for the configured proxy setting, or nil
// when no proxy should be used. QUIC is never proxied.
func resolveProxy(setting, transport, hostPort string) (*ProxyDialer, error) {
	if setting == "" || transport == TransportQUIC || transport == TransportUnix {
		return nil, nil
	}

	if setting != ProxyEnvironment {
		return NewProxyDialer(setting, "", "")
	}

	proxyURL, err := ProxyFromEnvironment(transport, hostPort)
	if err != nil || proxyURL == nil {
		return nil, err
	}

	return NewProxyDialer(proxyURL.String(), "", "")
}
