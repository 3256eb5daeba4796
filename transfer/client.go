// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"code.hybscloud.com/hostio"
)

var (
	// ErrTransferFailed wraps every failure reported by Send and Receive.
	ErrTransferFailed = errors.New("transfer: failed")
	// ErrNoRequest means the peer offered something other than a file.
	ErrNoRequest = errors.New("transfer: no file request")
)

// Client runs sends and receives against an Engine, wrapping host objects
// into hostio adapters on the way in.
type Client struct {
	cfg    *Config
	engine Engine
	hints  []RelayHint
	log    logrus.FieldLogger
}

// NewClient validates cfg and returns a Client. A nil log uses the logrus
// standard logger.
func NewClient(cfg *Config, engine Engine, log logrus.FieldLogger) (*Client, error) {
	if cfg == nil {
		return nil, &hostio.ConfigError{Field: "config", Err: errors.New("nil config")}
	}
	if engine == nil {
		return nil, &hostio.ConfigError{Field: "engine", Err: errors.New("nil engine")}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	hints, err := cfg.RelayHints()
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, engine: engine, hints: hints, log: OrStandardLogger(log)}, nil
}

// Config returns the client's configuration.
func (c *Client) Config() *Config { return c.cfg }

// Send offers blob to a peer under name. The allocated code is delivered to
// h.OnCode before the engine waits for the peer.
func (c *Client) Send(ctx context.Context, blob hostio.Blob, name string, h Handlers) error {
	log := c.log.WithFields(logrus.Fields{
		"transfer": uuid.NewString(),
		"op":       "send",
		"file":     name,
	})
	if blob == nil {
		return c.fail(log, "no data", &hostio.ConfigError{Field: "blob", Err: errors.New("nil blob")})
	}
	src := hostio.NewSource(blob)
	size := src.Size()
	log.WithField("size", size).Info("read raw data")

	log.Debug("connecting")
	sess, err := c.engine.Host(ctx, c.cfg)
	if err != nil {
		return c.fail(log, "error waiting for connection", err)
	}
	defer sess.Close()

	code := sess.Code()
	log.WithField("code", code).Info("wormhole code allocated")
	if h.OnCode != nil {
		h.OnCode(code)
	}

	err = sess.SendFile(ctx, c.hints, src, name, size, ForceRelay, c.handlers(log, h), hostio.Never{})
	if err != nil {
		return c.fail(log, "error in data transfer", err)
	}
	log.Info("data sent")
	return nil
}

// Receive joins the session identified by code and writes the offered file
// to writer, which may be any value hostio.NewSink accepts. An unusable
// writer is rejected before the engine is contacted.
func (c *Client) Receive(ctx context.Context, code string, writer any, h Handlers) error {
	log := c.log.WithFields(logrus.Fields{
		"transfer": uuid.NewString(),
		"op":       "receive",
		"code":     code,
	})
	sink, err := hostio.NewSink(writer)
	if err != nil {
		return c.fail(log, "unusable writer", err)
	}

	log.Debug("connecting")
	sess, err := c.engine.Join(ctx, c.cfg, code)
	if err != nil {
		return c.fail(log, "error in connection", err)
	}
	defer sess.Close()

	req, err := sess.RequestFile(ctx, c.hints, ForceRelay, hostio.Never{})
	if err != nil {
		return c.fail(log, "error in connection", err)
	}
	if req == nil {
		return c.fail(log, "no receive request", ErrNoRequest)
	}
	log = log.WithFields(logrus.Fields{"file": req.Name(), "size": req.Size()})
	log.Info("file offered")
	if h.OnOffer != nil {
		h.OnOffer(req.Name(), req.Size())
	}

	if err := req.Accept(ctx, c.handlers(log, h), sink, hostio.Never{}); err != nil {
		return c.fail(log, "error in data transfer", err)
	}
	log.WithField("written", sink.Written()).Info("data received")
	return nil
}

// handlers adds logging around the caller's handlers.
func (c *Client) handlers(log logrus.FieldLogger, h Handlers) Handlers {
	out := h
	out.OnConnect = func(info ConnInfo) {
		log.WithField("conn", info.String()).Info("connected")
		if h.OnConnect != nil {
			h.OnConnect(info)
		}
	}
	out.OnProgress = func(cur, total int64) {
		log.WithFields(logrus.Fields{"current": cur, "total": total}).Debug("progress")
		if h.OnProgress != nil {
			h.OnProgress(cur, total)
		}
	}
	return out
}

// fail logs err and wraps it in ErrTransferFailed. Errors of no hostio kind
// came from the engine and are marked as protocol errors.
func (c *Client) fail(log logrus.FieldLogger, msg string, err error) error {
	if !hostio.IsHostCall(err) && !hostio.IsConfig(err) && !hostio.IsProtocol(err) &&
		!errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) &&
		!errors.Is(err, hostio.ErrCanceled) && !errors.Is(err, ErrNoRequest) {
		err = &hostio.ProtocolError{Err: err}
	}
	log.WithError(err).Error(msg)
	return fmt.Errorf("%w: %s: %w", ErrTransferFailed, msg, err)
}
