package mqttlite

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateTestCertificate(t testing.TB) (tls.Certificate, *x509.CertPool) {
	t.Helper()

	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			Organization: []string{"Test"},
		},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
		DNSNames:              []string{"localhost"},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &privateKey.PublicKey, privateKey)
	require.NoError(t, err)

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})

	keyDER, err := x509.MarshalECPrivateKey(privateKey)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	require.NoError(t, err)

	certPool := x509.NewCertPool()
	certPool.AppendCertsFromPEM(certPEM)

	return cert, certPool
}

func TestTCPDialer(t *testing.T) {
	addr := echoServer(t)

	dialer := &TCPDialer{Timeout: 5 * time.Second}
	conn, err := dialer.Dial(context.Background(), addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte{0xC0, 0x00})
	require.NoError(t, err)

	buf := make([]byte, 2)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xC0, 0x00}, buf)
}

func TestTCPDialerContextCancel(t *testing.T) {
	dialer := &TCPDialer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dialer.Dial(ctx, "127.0.0.1:1883")
	assert.Error(t, err)
}

func TestTLSDialer(t *testing.T) {
	cert, pool := generateTestCertificate(t)

	listener, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{Certificates: []tls.Certificate{cert}})
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = io.Copy(conn, conn)
	}()

	t.Run("verified", func(t *testing.T) {
		dialer := &TLSDialer{Config: &tls.Config{RootCAs: pool}, Timeout: 5 * time.Second}

		conn, err := dialer.Dial(context.Background(), listener.Addr().String())
		require.NoError(t, err)
		defer conn.Close()

		_, err = conn.Write([]byte{0xE0, 0x00})
		require.NoError(t, err)

		buf := make([]byte, 2)
		_, err = io.ReadFull(conn, buf)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xE0, 0x00}, buf)
	})
}

func TestTLSDialerUnknownAuthority(t *testing.T) {
	cert, _ := generateTestCertificate(t)

	listener, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{Certificates: []tls.Certificate{cert}})
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = conn.Read(make([]byte, 1))
	}()

	dialer := &TLSDialer{Timeout: 5 * time.Second}
	_, err = dialer.Dial(context.Background(), listener.Addr().String())
	assert.Error(t, err)
}

func TestDialTarget(t *testing.T) {
	tlsConfig := &tls.Config{ServerName: "broker"}

	tests := []struct {
		name      string
		transport string
		wantAddr  string
		check     func(t *testing.T, d Dialer)
	}{
		{"default", "", "127.0.0.1:1883", func(t *testing.T, d Dialer) {
			assert.IsType(t, &TCPDialer{}, d)
		}},
		{"tcp", TransportTCP, "127.0.0.1:1883", func(t *testing.T, d Dialer) {
			assert.Nil(t, d.(*TCPDialer).Proxy)
		}},
		{"tls", TransportTLS, "127.0.0.1:1883", func(t *testing.T, d Dialer) {
			assert.Same(t, tlsConfig, d.(*TLSDialer).Config)
		}},
		{"ws", TransportWS, "ws://127.0.0.1:1883/mqtt", func(t *testing.T, d Dialer) {
			assert.Equal(t, []string{WebSocketSubprotocol}, d.(*WSDialer).Dialer.Subprotocols)
		}},
		{"wss", TransportWSS, "wss://127.0.0.1:1883/mqtt", func(t *testing.T, d Dialer) {
			assert.Same(t, tlsConfig, d.(*WSDialer).Dialer.TLSClientConfig)
		}},
		{"quic", TransportQUIC, "127.0.0.1:1883", func(t *testing.T, d Dialer) {
			assert.Same(t, tlsConfig, d.(*QUICDialer).TLSConfig)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Host: "127.0.0.1", Port: 1883, Transport: tt.transport, WSPath: DefaultWSPath}
			opts := applyOptions(WithTLS(tlsConfig))

			d, addr, err := dialTarget(&cfg, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, addr)
			tt.check(t, d)
		})
	}

	t.Run("custom dialer", func(t *testing.T) {
		custom := &TCPDialer{Timeout: time.Second}
		cfg := Config{Host: "::1", Port: 1883, Transport: TransportWS}

		d, addr, err := dialTarget(&cfg, applyOptions(WithDialer(custom)))
		require.NoError(t, err)
		assert.Same(t, custom, d)
		assert.Equal(t, "[::1]:1883", addr)
	})

	t.Run("proxy", func(t *testing.T) {
		cfg := Config{Host: "broker", Port: 1883, Transport: TransportTCP, Proxy: "socks5://proxy:1080"}

		d, _, err := dialTarget(&cfg, applyOptions())
		require.NoError(t, err)
		assert.NotNil(t, d.(*TCPDialer).Proxy)
	})

	t.Run("websocket proxy", func(t *testing.T) {
		cfg := Config{Host: "broker", Port: 80, Transport: TransportWS, WSPath: "/ws", Proxy: "http://proxy:3128"}

		d, addr, err := dialTarget(&cfg, applyOptions())
		require.NoError(t, err)
		assert.Equal(t, "ws://broker:80/ws", addr)
		assert.NotNil(t, d.(*WSDialer).Dialer.NetDialContext)
	})

	t.Run("bad proxy", func(t *testing.T) {
		cfg := Config{Host: "broker", Port: 1883, Proxy: "ftp://proxy"}

		_, _, err := dialTarget(&cfg, applyOptions())
		assert.Error(t, err)
	})

	t.Run("unix socket", func(t *testing.T) {
		cfg := Config{Host: "/run/mqtt.sock", Transport: TransportUnix, Proxy: "socks5://proxy:1080"}

		d, addr, err := dialTarget(&cfg, applyOptions())
		require.NoError(t, err)
		assert.IsType(t, &UnixDialer{}, d)
		assert.Equal(t, "/run/mqtt.sock", addr)
	})

	t.Run("unsupported transport", func(t *testing.T) {
		cfg := Config{Host: "broker", Port: 1883, Transport: "udp"}

		_, _, err := dialTarget(&cfg, applyOptions())
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
