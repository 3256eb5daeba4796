// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transfer

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"code.hybscloud.com/hostio"
)

// Abilities lists the connection kinds a side is willing to use.
type Abilities struct {
	DirectTCP bool
	Relay     bool
}

// ForceRelay is what browser hosts use: they cannot accept direct TCP.
var ForceRelay = Abilities{Relay: true}

// AllAbilities allows both direct and relayed connections.
var AllAbilities = Abilities{DirectTCP: true, Relay: true}

// Intersect returns the abilities both sides share.
func (a Abilities) Intersect(b Abilities) Abilities {
	return Abilities{DirectTCP: a.DirectTCP && b.DirectTCP, Relay: a.Relay && b.Relay}
}

// Empty reports whether no connection kind is allowed.
func (a Abilities) Empty() bool { return !a.DirectTCP && !a.Relay }

// RelayHint names a transit relay.
type RelayHint struct {
	Name string
	URLs []*url.URL
}

// ConnInfo describes an established transit connection.
type ConnInfo struct {
	Kind  string // "relay" or "direct"
	Peer  string
	Relay *url.URL
}

func (ci ConnInfo) String() string {
	if ci.Relay != nil {
		return fmt.Sprintf("%s %s via %s", ci.Kind, ci.Peer, ci.Relay)
	}
	return fmt.Sprintf("%s %s", ci.Kind, ci.Peer)
}

// Handlers carries the notifications an engine delivers during a transfer.
// The engine calls them synchronously; they must not block. Nil fields are
// skipped.
type Handlers struct {
	OnCode     func(code string)
	OnOffer    func(name string, size int64)
	OnConnect  func(info ConnInfo)
	OnProgress hostio.ProgressFunc
}

// Engine is the transfer protocol engine: connection setup, code exchange,
// relay negotiation and encryption. hostio does not implement a real one;
// Loopback is an in-process stand-in.
type Engine interface {
	// Host opens a sending session and allocates its code.
	Host(ctx context.Context, cfg *Config) (Session, error)
	// Join connects to the session identified by code.
	Join(ctx context.Context, cfg *Config, code string) (Session, error)
}

// Session is one side of a connected mailbox.
//
// The byte endpoints an engine receives follow hostio poll semantics: Read and
// Write may return hostio.ErrWouldBlock, and implement hostio.Waiter. A nil
// cancel Signal means no cancellation.
type Session interface {
	Code() string
	SendFile(ctx context.Context, hints []RelayHint, src io.Reader, name string, size int64, abilities Abilities, h Handlers, cancel hostio.Signal) error
	// RequestFile waits for the peer's offer. It returns (nil, nil) when the
	// peer sent something other than a file.
	RequestFile(ctx context.Context, hints []RelayHint, abilities Abilities, cancel hostio.Signal) (Request, error)
	Close() error
}

// Request is a file offer received from the peer.
type Request interface {
	Name() string
	Size() int64
	Accept(ctx context.Context, h Handlers, dst io.Writer, cancel hostio.Signal) error
	Reject(ctx context.Context) error
}
