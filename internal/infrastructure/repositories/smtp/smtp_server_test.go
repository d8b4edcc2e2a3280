//go:build unit

package smtp_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"math/big"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// smtpServerOptions shapes the ESMTP dialogue of a scriptedSMTPServer.
type smtpServerOptions struct {
	TLSConfig      *tls.Config // nil means STARTTLS is not advertised
	AuthMechanisms string      // space separated, advertised after STARTTLS
	RejectAuth     bool
}

// scriptedSMTPServer is a single-host ESMTP listener that records the session.
type scriptedSMTPServer struct {
	options  smtpServerOptions
	listener net.Listener

	mu        sync.Mutex
	commands  []string
	mechanism string
	username  string
	password  string
	data      string
}

func startSMTPServer(t *testing.T, options smtpServerOptions) *scriptedSMTPServer {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &scriptedSMTPServer{options: options, listener: listener}
	t.Cleanup(func() { _ = listener.Close() })
	go server.accept()
	return server
}

func (s *scriptedSMTPServer) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *scriptedSMTPServer) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

func (s *scriptedSMTPServer) Credentials() (string, string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mechanism, s.username, s.password
}

func (s *scriptedSMTPServer) Data() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

func (s *scriptedSMTPServer) accept() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.serve(conn)
	}
}

func (s *scriptedSMTPServer) record(verb string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, verb)
}

func (s *scriptedSMTPServer) serve(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	_ = conn.SetDeadline(time.Now().Add(10 * time.Second))

	text := textproto.NewConn(conn)
	secure := false
	_ = text.PrintfLine("220 localhost ESMTP ready")

	for {
		line, err := text.ReadLine()
		if err != nil {
			return
		}
		verb, arg, _ := strings.Cut(line, " ")
		verb = strings.ToUpper(verb)
		s.record(verb)

		switch verb {
		case "EHLO":
			s.hello(text, secure)
		case "HELO":
			_ = text.PrintfLine("250 localhost")
		case "STARTTLS":
			if s.options.TLSConfig == nil || secure {
				_ = text.PrintfLine("502 5.5.1 STARTTLS not available")
				continue
			}
			_ = text.PrintfLine("220 2.0.0 ready to start TLS")
			tlsConn := tls.Server(conn, s.options.TLSConfig)
			if handshakeErr := tlsConn.Handshake(); handshakeErr != nil {
				return
			}
			conn = tlsConn
			text = textproto.NewConn(tlsConn)
			secure = true
		case "AUTH":
			s.authenticate(text, arg)
		case "MAIL", "RCPT", "RSET", "NOOP":
			_ = text.PrintfLine("250 2.0.0 ok")
		case "DATA":
			_ = text.PrintfLine("354 end data with <CR><LF>.<CR><LF>")
			lines, readErr := text.ReadDotLines()
			if readErr != nil {
				return
			}
			s.mu.Lock()
			s.data = strings.Join(lines, "\n")
			s.mu.Unlock()
			_ = text.PrintfLine("250 2.0.0 queued")
		case "QUIT":
			_ = text.PrintfLine("221 2.0.0 bye")
			return
		case "*":
			_ = text.PrintfLine("501 5.7.0 authentication aborted")
		default:
			_ = text.PrintfLine("502 5.5.2 command not recognized")
		}
	}
}

func (s *scriptedSMTPServer) hello(text *textproto.Conn, secure bool) {
	lines := []string{"localhost"}
	if s.options.TLSConfig != nil && !secure {
		lines = append(lines, "STARTTLS")
	}
	if secure && s.options.AuthMechanisms != "" {
		lines = append(lines, "AUTH "+s.options.AuthMechanisms)
	}
	for i, line := range lines {
		separator := "-"
		if i == len(lines)-1 {
			separator = " "
		}
		_ = text.PrintfLine("250%s%s", separator, line)
	}
}

func (s *scriptedSMTPServer) authenticate(text *textproto.Conn, arg string) {
	mechanism, initial, _ := strings.Cut(arg, " ")
	mechanism = strings.ToUpper(mechanism)

	var username, password string
	switch mechanism {
	case "PLAIN":
		decoded, _ := base64.StdEncoding.DecodeString(initial)
		parts := strings.Split(string(decoded), "\x00")
		if len(parts) == 3 {
			username, password = parts[1], parts[2]
		}
	case "LOGIN":
		var ok bool
		if username, ok = challenge(text, "Username:"); !ok {
			return
		}
		if password, ok = challenge(text, "Password:"); !ok {
			return
		}
	default:
		_ = text.PrintfLine("504 5.5.4 mechanism not supported")
		return
	}

	s.mu.Lock()
	s.mechanism, s.username, s.password = mechanism, username, password
	s.mu.Unlock()

	if s.options.RejectAuth {
		_ = text.PrintfLine("535 5.7.8 authentication credentials invalid")
		return
	}
	_ = text.PrintfLine("235 2.7.0 authentication succeeded")
}

// challenge sends a 334 prompt and returns the decoded answer.
func challenge(text *textproto.Conn, prompt string) (string, bool) {
	_ = text.PrintfLine("334 %s", base64.StdEncoding.EncodeToString([]byte(prompt)))
	line, err := text.ReadLine()
	if err != nil || line == "*" {
		_ = text.PrintfLine("501 5.7.0 authentication aborted")
		return "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(line)
	if err != nil {
		_ = text.PrintfLine("501 5.5.2 cannot decode response")
		return "", false
	}
	return string(decoded), true
}

// newTLSConfigs returns a server config with a self-signed certificate for 127.0.0.1
// and a client config that trusts it.
func newTLSConfigs(t *testing.T) (*tls.Config, *tls.Config) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "127.0.0.1"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	certificate, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	roots := x509.NewCertPool()
	roots.AddCert(certificate)

	server := &tls.Config{
		Certificates: []tls.Certificate{{Certificate: [][]byte{der}, PrivateKey: key}},
		MinVersion:   tls.VersionTLS12,
	}
	client := &tls.Config{RootCAs: roots, ServerName: "127.0.0.1", MinVersion: tls.VersionTLS12}
	return server, client
}
