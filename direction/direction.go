// Package direction labels which way a chunk of relayed data is flowing.
package direction

// Direction is either an IncomingDirection or an OutgoingDirection.
type Direction interface {
	String() string
	direction()
}

type IncomingDirection uint8

const (
	// FromServer is data read from the remote proxy (e.g. a socks5 server).
	FromServer IncomingDirection = iota
	// FromClient is data read from the tunnel device.
	FromClient
)

func (IncomingDirection) direction() {}

func (d IncomingDirection) String() string {
	switch d {
	case FromServer:
		return "incoming(from server)"
	case FromClient:
		return "incoming(from client)"
	}
	return "incoming(unknown)"
}

type OutgoingDirection uint8

const (
	// ToServer is data written to the remote proxy.
	ToServer OutgoingDirection = iota
	// ToClient is data written to the tunnel device.
	ToClient
)

func (OutgoingDirection) direction() {}

func (d OutgoingDirection) String() string {
	switch d {
	case ToServer:
		return "outgoing(to server)"
	case ToClient:
		return "outgoing(to client)"
	}
	return "outgoing(unknown)"
}

// DataEvent pairs a direction with a view of a buffer it does not own.
type DataEvent[T Direction] struct {
	Direction T
	Buffer    []byte
}

type (
	IncomingDataEvent = DataEvent[IncomingDirection]
	OutgoingDataEvent = DataEvent[OutgoingDirection]
)
