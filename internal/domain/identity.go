package domain

import (
	"fmt"
	"net"
	"strconv"
)

// WalletIdentity names the wallet a session is bound to.
// It is passed by value and never mutated after bootstrap begins.
type WalletIdentity struct {
	// Name is the identity key used for the existence check, create and open calls
	Name string

	// Password is handed unmodified to create/open
	Password string

	// OwnerSeed is only used when a new wallet is created
	OwnerSeed string
}

// String hides the credentials so identities can be logged safely.
func (i WalletIdentity) String() string {
	return fmt.Sprintf("WalletIdentity{Name:%q}", i.Name)
}

// NodeEndpoint is the remote node a session synchronizes against.
type NodeEndpoint struct {
	Host string
	Port int
}

// ParseEndpoint parses a "host:port" address. IPv6 hosts must be bracketed.
func ParseEndpoint(addr string) (NodeEndpoint, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return NodeEndpoint{}, fmt.Errorf("%w: %q: %v", ErrInvalidEndpoint, addr, err)
	}
	if host == "" {
		return NodeEndpoint{}, fmt.Errorf("%w: %q: missing host", ErrInvalidEndpoint, addr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return NodeEndpoint{}, fmt.Errorf("%w: %q: port must be in 1..65535", ErrInvalidEndpoint, addr)
	}
	return NodeEndpoint{Host: host, Port: port}, nil
}

// String returns the endpoint in its external "host:port" form.
func (e NodeEndpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}
