// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transfer

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"code.hybscloud.com/hostio"
)

var (
	ErrUnknownCode     = errors.New("transfer: unknown code")
	ErrRejected        = errors.New("transfer: offer rejected")
	ErrNoCommonAbility = errors.New("transfer: no common connection ability")
	ErrSessionClosed   = errors.New("transfer: session closed")
)

var codeWords = []string{
	"acme", "bravado", "chisel", "dragnet", "eyeglass", "flatfoot",
	"gremlin", "hamlet", "indoors", "jawbone", "kickoff", "lockup",
	"misnomer", "nightcap", "offload", "playhouse", "quadrant", "ragtime",
	"sawdust", "tiptoe", "upshot", "village", "waffle", "yucatan",
}

// Loopback is an in-process Engine: both sides of a transfer run in the
// same process and bytes move through a hostio.Pump. The receiving side
// drives the pump, polling the sender's reader and its own writer.
type Loopback struct {
	mu    sync.Mutex
	next  int
	boxes map[string]*mailbox
}

// NewLoopback returns an empty Loopback engine.
func NewLoopback() *Loopback {
	return &Loopback{boxes: make(map[string]*mailbox)}
}

type mailbox struct {
	code   string
	offers chan *offer
	closed chan struct{}
	once   sync.Once
}

func (m *mailbox) close() { m.once.Do(func() { close(m.closed) }) }

type offer struct {
	name      string
	size      int64
	src       io.Reader
	abilities Abilities
	relay     *url.URL
	progress  hostio.ProgressFunc
	connected chan ConnInfo
	result    chan error
	once      sync.Once
}

func (o *offer) settle(err error) {
	o.once.Do(func() { o.result <- err })
}

// Host allocates a code of a numeric nameplate followed by
// cfg.PassphraseComponentLen words.
func (l *Loopback) Host(ctx context.Context, cfg *Config) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, &hostio.ConfigError{Field: "config", Err: errors.New("nil config")}
	}
	box, err := l.allocate(cfg.PassphraseComponentLen)
	if err != nil {
		return nil, err
	}
	return &loopSession{lb: l, box: box, cfg: cfg, host: true}, nil
}

// Join looks up a code allocated by Host.
func (l *Loopback) Join(ctx context.Context, cfg *Config, code string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, &hostio.ConfigError{Field: "config", Err: errors.New("nil config")}
	}
	l.mu.Lock()
	box, ok := l.boxes[code]
	l.mu.Unlock()
	if !ok {
		return nil, &hostio.ProtocolError{Err: fmt.Errorf("%w %q", ErrUnknownCode, code)}
	}
	return &loopSession{lb: l, box: box, cfg: cfg}, nil
}

func (l *Loopback) allocate(words int) (*mailbox, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	parts := make([]string, 0, words+1)
	parts = append(parts, strconv.Itoa(l.next))
	for range words {
		i, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeWords))))
		if err != nil {
			return nil, err
		}
		parts = append(parts, codeWords[i.Int64()])
	}
	box := &mailbox{
		code:   strings.Join(parts, "-"),
		offers: make(chan *offer, 1),
		closed: make(chan struct{}),
	}
	l.boxes[box.code] = box
	return box, nil
}

func (l *Loopback) remove(code string) {
	l.mu.Lock()
	delete(l.boxes, code)
	l.mu.Unlock()
}

type loopSession struct {
	lb      *Loopback
	box     *mailbox
	cfg     *Config
	host    bool
	pending *offer
}

func (s *loopSession) Code() string { return s.box.code }

func (s *loopSession) SendFile(ctx context.Context, hints []RelayHint, src io.Reader, name string, size int64, abilities Abilities, h Handlers, cancel hostio.Signal) error {
	cancel = hostio.SignalOrNever(cancel)
	o := &offer{
		name:      name,
		size:      size,
		src:       src,
		abilities: abilities,
		relay:     firstRelay(hints),
		progress:  h.OnProgress,
		connected: make(chan ConnInfo, 1),
		result:    make(chan error, 1),
	}
	select {
	case s.box.offers <- o:
	case <-ctx.Done():
		return ctx.Err()
	case <-cancel.Done():
		return hostio.ErrCanceled
	case <-s.box.closed:
		return &hostio.ProtocolError{Err: ErrSessionClosed}
	}

	connected := func(ci ConnInfo) {
		if h.OnConnect != nil {
			h.OnConnect(ci)
		}
	}
	for {
		select {
		case ci := <-o.connected:
			connected(ci)
		case err := <-o.result:
			select {
			case ci := <-o.connected:
				connected(ci)
			default:
			}
			return err
		case <-ctx.Done():
			return ctx.Err()
		case <-cancel.Done():
			return hostio.ErrCanceled
		}
	}
}

func (s *loopSession) RequestFile(ctx context.Context, hints []RelayHint, abilities Abilities, cancel hostio.Signal) (Request, error) {
	cancel = hostio.SignalOrNever(cancel)
	var o *offer
	select {
	case o = <-s.box.offers:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-cancel.Done():
		return nil, hostio.ErrCanceled
	case <-s.box.closed:
		return nil, &hostio.ProtocolError{Err: ErrSessionClosed}
	}
	common := o.abilities.Intersect(abilities)
	if common.Empty() {
		err := &hostio.ProtocolError{Err: ErrNoCommonAbility}
		o.settle(err)
		return nil, err
	}
	s.pending = o
	info := ConnInfo{Kind: "direct", Peer: s.box.code}
	if !common.DirectTCP {
		info.Kind = "relay"
		info.Relay = o.relay
		if info.Relay == nil {
			info.Relay = firstRelay(hints)
		}
	}
	return &loopRequest{s: s, o: o, info: info}, nil
}

// Close releases the session. Closing the hosting side frees its code;
// closing the joined side fails any offer it neither accepted nor rejected.
func (s *loopSession) Close() error {
	if s.host {
		s.box.close()
		s.lb.remove(s.box.code)
		return nil
	}
	if s.pending != nil {
		s.pending.settle(&hostio.ProtocolError{Err: ErrSessionClosed})
	}
	return nil
}

type loopRequest struct {
	s    *loopSession
	o    *offer
	info ConnInfo
}

func (r *loopRequest) Name() string { return r.o.name }
func (r *loopRequest) Size() int64  { return r.o.size }

func (r *loopRequest) Accept(ctx context.Context, h Handlers, dst io.Writer, cancel hostio.Signal) error {
	select {
	case r.o.connected <- r.info:
	default:
	}
	if h.OnConnect != nil {
		h.OnConnect(r.info)
	}

	progress := func(cur, total int64) {
		if h.OnProgress != nil {
			h.OnProgress(cur, total)
		}
		if r.o.progress != nil {
			r.o.progress(cur, total)
		}
	}
	chunk := r.s.cfg.ChunkSize
	if chunk < 1 {
		chunk = DefaultChunkSize
	}
	p := hostio.NewPump(hostio.ProgressWriter(dst, r.o.size, progress), r.o.src, make([]byte, chunk))
	n, err := p.Run(ctx, cancel)
	if err == nil && n != r.o.size {
		err = &hostio.ProtocolError{Err: fmt.Errorf("received %d of %d bytes: %w", n, r.o.size, io.ErrUnexpectedEOF)}
	}
	if err == nil {
		if f, ok := dst.(hostio.Flusher); ok {
			err = f.Flush()
		}
	}
	r.o.settle(err)
	return err
}

func (r *loopRequest) Reject(ctx context.Context) error {
	r.o.settle(&hostio.ProtocolError{Err: ErrRejected})
	return nil
}

func firstRelay(hints []RelayHint) *url.URL {
	for _, h := range hints {
		if len(h.URLs) > 0 {
			return h.URLs[0]
		}
	}
	return nil
}
