package sshd

import (
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/layer-3/keychat/core"
	"github.com/layer-3/keychat/ports"
	"github.com/layer-3/keychat/service"
	"golang.org/x/crypto/ssh"
)

// NewServerConfig builds the SSH server configuration: password-only
// authentication through the guard, a welcome banner, and the host key.
// Public-key auth is not offered, so clients fall through to password.
func NewServerConfig(guard *AuthGuard, hostKey ssh.Signer) *ssh.ServerConfig {
	config := &ssh.ServerConfig{
		PasswordCallback: guard.PasswordCallback,
		BannerCallback: func(conn ssh.ConnMetadata) string {
			return "Welcome to keychat.\n"
		},
	}
	config.ServerVersion = "SSH-2.0-keychat_1.0"
	config.AddHostKey(hostKey)
	return config
}

// Server accepts SSH connections and runs one chat session per session
// channel. All sessions share a single registry and event publisher.
type Server struct {
	addr      string
	sshConfig *ssh.ServerConfig
	registry  *service.Registry
	events    ports.EventPublisher

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

// NewServer creates a new SSH chat server listening on addr.
func NewServer(addr string, sshConfig *ssh.ServerConfig, registry *service.Registry, events ports.EventPublisher) *Server {
	return &Server{
		addr:      addr,
		sshConfig: sshConfig,
		registry:  registry,
		events:    events,
	}
}

// Listen binds the listening socket. Failing to bind is a process-level
// fault, so the caller is expected to treat the error as fatal.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	log.Printf("sshd: listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound listen address. Only valid after Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until the server is closed. Every
// per-connection fault is contained to that connection's handler.
func (s *Server) Serve() error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return nil
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}
		go s.handleConn(conn)
	}
}

// ListenAndServe binds the socket and serves until closed.
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Close stops accepting connections. Established sessions keep running
// until their own transport closes.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// handleConn performs the SSH handshake and turns each accepted session
// channel into a chat session. A failed handshake (bad credential,
// exhausted attempts, client gave up) just closes the connection; any
// verdict produced for a peer that already disconnected is discarded
// here without side effects beyond the verdict cache.
func (s *Server) handleConn(conn net.Conn) {
	sshConn, chans, reqs, err := ssh.NewServerConn(conn, s.sshConfig)
	if err != nil {
		conn.Close()
		return
	}
	defer sshConn.Close()

	identity := sshConn.Permissions.Extensions[identityExtension]
	displayName := sshConn.User()

	go ssh.DiscardRequests(reqs)

	for newChannel := range chans {
		if newChannel.ChannelType() != "session" {
			newChannel.Reject(ssh.UnknownChannelType, "only chat sessions are supported")
			continue
		}

		channel, requests, err := newChannel.Accept()
		if err != nil {
			log.Printf("sshd: failed to accept channel from %s: %v", sshConn.RemoteAddr(), err)
			continue
		}
		go acceptSessionRequests(requests)

		session := core.NewSession(uuid.New().String(), identity, displayName)
		chat := &chatSession{
			session:  session,
			channel:  channel,
			registry: s.registry,
			events:   s.events,
		}
		go chat.run()
	}
}

// acceptSessionRequests grants the channel requests an interactive
// client needs (pty, shell, env) and refuses everything else, exec and
// subsystem requests included.
func acceptSessionRequests(in <-chan *ssh.Request) {
	for req := range in {
		ok := false
		switch req.Type {
		case "shell", "pty-req", "env", "window-change":
			ok = true
		}
		if req.WantReply {
			req.Reply(ok, nil)
		}
	}
}
