package sshd

import (
	"context"
	"fmt"
	"log"

	"github.com/layer-3/keychat/core"
	"github.com/layer-3/keychat/ports"
	"github.com/layer-3/keychat/service"
	"golang.org/x/crypto/ssh"
)

// etx is the byte an interactive client sends for Ctrl+C; it ends the
// session, matching how users expect to leave the chat.
const etx = 0x03

// chatSession relays between one authenticated session channel and the
// shared registry: a writer goroutine drains the session's outbound
// queue to the channel, the read loop broadcasts each inbound line.
type chatSession struct {
	session  *core.Session
	channel  ssh.Channel
	registry *service.Registry
	events   ports.EventPublisher
}

// run owns the session lifecycle from admission to cleanup. Registry
// removal is deferred so it runs on every exit path, read errors and
// abrupt disconnects included.
func (c *chatSession) run() {
	defer c.channel.Close()
	defer c.session.Close()

	if err := c.registry.Admit(c.session); err != nil {
		// Duplicate id is an internal invariant violation: reject this
		// session only, leave the registered one untouched.
		log.Printf("sshd: failed to admit session %s: %v", c.session.ID, err)
		fmt.Fprintf(c.channel, "server error, try again\r\n")
		return
	}
	defer c.teardown()

	go c.writeLoop()

	joined := fmt.Sprintf("%s connected to the server.", c.session.DisplayName)
	c.registry.Broadcast(c.session.ID, joined)
	c.session.Deliver(joined)

	if err := c.events.PublishAdmitted(context.Background(), c.session); err != nil {
		log.Printf("sshd: failed to publish admission of session %s: %v", c.session.ID, err)
	}
	log.Printf("sshd: admitted %q as session %s (identity %s)", c.session.DisplayName, c.session.ID, c.session.Identity)

	c.readLoop()
}

// teardown removes the session from the registry and tells survivors.
func (c *chatSession) teardown() {
	c.registry.Remove(c.session.ID)
	c.registry.Broadcast(c.session.ID, fmt.Sprintf("%s disconnected from the server.", c.session.DisplayName))

	if err := c.events.PublishDisconnected(context.Background(), c.session); err != nil {
		log.Printf("sshd: failed to publish disconnect of session %s: %v", c.session.ID, err)
	}
	log.Printf("sshd: session %s (%s) closed", c.session.ID, c.session.DisplayName)
}

// writeLoop drains the outbound queue to the channel. A write failure
// closes the session, which also unblocks the read loop.
func (c *chatSession) writeLoop() {
	for {
		select {
		case message := <-c.session.Outbound():
			if _, err := c.channel.Write([]byte(message + "\r\n")); err != nil {
				c.session.Close()
				return
			}
		case <-c.session.Done():
			return
		}
	}
}

// readLoop assembles inbound bytes into lines and broadcasts each line
// attributed to the sender. It handles both raw-mode clients (bytes
// trickle in without newlines until Enter) and line-mode clients. A
// read error is terminal for the session, not recoverable in place.
func (c *chatSession) readLoop() {
	buf := make([]byte, 512)
	line := make([]byte, 0, 512)

	for {
		n, err := c.channel.Read(buf)
		for _, b := range buf[:n] {
			switch {
			case b == etx:
				return
			case b == '\r' || b == '\n':
				if len(line) > 0 {
					c.registry.Broadcast(c.session.ID, fmt.Sprintf("[%s]: %s", c.session.DisplayName, string(line)))
					line = line[:0]
				}
			default:
				line = append(line, b)
			}
		}
		if err != nil {
			return
		}
	}
}
