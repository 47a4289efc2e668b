package repositories

// TransportEvents are the callbacks a transport delivers, in order, from its own goroutine
type TransportEvents struct {
	OnOpen    func()
	OnMessage func(frame []byte)
	OnError   func(err error)
	OnClose   func()
}

// Transport is one live connection attempt
type Transport interface {
	Send(frame []byte) error
	Close() error
}

// Dialer starts a connection attempt without blocking. Open is reported
// through events.OnOpen; a failed attempt reports OnError followed by OnClose.
type Dialer interface {
	Open(url string, events TransportEvents) Transport
}
