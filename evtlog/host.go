package evtlog

import (
	"io"
)

// Credentials select a remote host. A nil *Credentials is the local host.
type Credentials struct {
	Host     string
	Domain   string
	User     string
	Password []byte
}

// Zero wipes the password in place. Copies made before the Credentials were
// built, such as a command line string, are out of its reach.
func (c *Credentials) Zero() {
	if c == nil {
		return
	}
	for i := range c.Password {
		c.Password[i] = 0
	}
	c.Password = nil
}

// HostSubscriber is a Subscriber holding a session to a host.
type HostSubscriber interface {
	Subscriber
	io.Closer
}
