// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/catalog"
	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/decode"
)

// Client abstracts the Modbus operations the poller needs.
// A Client is one session; it is never used by two goroutines at once.
type Client interface {
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
	Close() error
}

// Factory opens a new session. ONE attempt per call.
type Factory func() (Client, error)

// Config is the immutable runtime config of one device poller.
type Config struct {
	Device    string
	WordOrder decode.WordOrder
	Catalog   *catalog.Catalog

	// Interval and PollTimeout drive Run only. Zero selects the defaults.
	Interval    time.Duration
	PollTimeout time.Duration
}

// Poller reads the whole catalog from one device, one descriptor at a time.
type Poller struct {
	cfg     Config
	items   []catalog.Descriptor
	factory Factory
	log     logrus.FieldLogger

	busy atomic.Bool

	mu     sync.Mutex
	client Client
}

// New creates a poller. client may be nil; the first Refresh then
// connects through factory.
func New(cfg Config, client Client, factory Factory, log logrus.FieldLogger) (*Poller, error) {
	if cfg.Device == "" {
		return nil, errors.New("poller: device id required")
	}
	if cfg.WordOrder != decode.BigEndian && cfg.WordOrder != decode.LittleEndian {
		return nil, errors.New("poller: word order must be big or little")
	}
	if cfg.Catalog == nil || cfg.Catalog.Len() == 0 {
		return nil, errors.New("poller: catalog must not be empty")
	}
	if cfg.Interval < 0 || cfg.PollTimeout < 0 {
		return nil, errors.New("poller: interval and poll timeout must be >= 0")
	}
	if client == nil && factory == nil {
		return nil, errors.New("poller: client or factory required")
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Poller{
		cfg:     cfg,
		items:   cfg.Catalog.Descriptors(),
		factory: factory,
		log:     log.WithField("device", cfg.Device),
		client:  client,
	}, nil
}

// Device returns the configured device id.
func (p *Poller) Device() string { return p.cfg.Device }

// Connect establishes the session if there is none.
func (p *Poller) Connect() error {
	_, err := p.session()
	return err
}

// Close releases the session. Errors are swallowed.
func (p *Poller) Close() {
	p.mu.Lock()
	c := p.client
	p.client = nil
	p.mu.Unlock()

	if c != nil {
		_ = c.Close()
	}
}

// Refresh performs exactly one poll cycle over the whole catalog.
//
// A failing descriptor is recorded as unavailable and the cycle goes on.
// The cycle fails as a unit (*TransportError) only when no session can be
// had, or when the session dies and cannot be restored before any read
// succeeded. Cancelling ctx closes the session and fails the cycle.
func (p *Poller) Refresh(ctx context.Context) (PollResult, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return PollResult{}, ErrPollInFlight
	}
	defer p.busy.Store(false)

	if err := ctx.Err(); err != nil {
		return PollResult{}, p.transportErr("poll", err)
	}

	start := time.Now()

	client, err := p.session()
	if err != nil {
		return PollResult{}, err
	}

	// Unblocks a read stuck on an unresponsive device.
	stop := context.AfterFunc(ctx, p.Close)
	defer stop()

	res := PollResult{
		Device:   p.cfg.Device,
		At:       start,
		Readings: make(map[string]Reading, len(p.items)),
		Order:    make([]string, 0, len(p.items)),
	}

	var (
		succeeded   int
		reconnected bool
		sessionGone error
	)

	for _, d := range p.items {
		res.Order = append(res.Order, d.Name)

		if sessionGone != nil {
			res.Readings[d.Name] = Reading{Err: p.readErr(d, errSkipped)}
			continue
		}
		if err := ctx.Err(); err != nil {
			p.Close()
			return PollResult{}, p.transportErr("poll", err)
		}

		v, err := p.read(client, d)

		if err != nil && isConnectionLost(err) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				p.Close()
				return PollResult{}, p.transportErr("poll", ctxErr)
			}

			p.discard(client)
			p.log.WithError(err).Warn("connection lost during poll")

			if reconnected {
				sessionGone = err
			} else {
				reconnected = true
				next, cerr := p.session()
				if cerr != nil {
					sessionGone = cerr
				} else {
					client = next
					v, err = p.read(client, d)
					if err != nil && isConnectionLost(err) {
						p.discard(client)
						sessionGone = err
					}
				}
			}

			if sessionGone != nil && succeeded == 0 {
				return PollResult{}, p.transportErr("read", sessionGone)
			}
		}

		if err != nil {
			rerr := p.readErr(d, err)
			res.Readings[d.Name] = Reading{Err: rerr}
			p.log.WithFields(logrus.Fields{
				"sensor":  d.Name,
				"address": d.Registers.Start(),
			}).WithError(err).Debug("register unavailable")
			continue
		}

		res.Readings[d.Name] = Reading{Value: v}
		succeeded++
	}

	res.Duration = time.Since(start)
	return res, nil
}

// ---- internals ----

// read fetches and decodes one descriptor.
func (p *Poller) read(c Client, d catalog.Descriptor) (decode.Value, error) {
	start := d.Registers.Start()
	qty := uint16(d.Registers.Count())

	regs, err := c.ReadHoldingRegisters(start, qty)
	if err != nil {
		return decode.Value{}, err
	}

	words := make([]decode.Word, len(regs))
	for i, r := range regs {
		words[i] = decode.Word{Address: start + uint16(i), Value: r}
	}

	return decode.Decode(d, words, p.cfg.WordOrder)
}

// session returns the live client, opening one if needed.
func (p *Poller) session() (Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	if p.factory == nil {
		return nil, p.transportErr("connect", errors.New("no client factory"))
	}

	c, err := p.factory()
	if err != nil {
		return nil, p.transportErr("connect", err)
	}
	p.client = c
	p.log.Debug("session established")
	return c, nil
}

// discard drops c if it is still the current session.
func (p *Poller) discard(c Client) {
	p.mu.Lock()
	if p.client == c {
		p.client = nil
	}
	p.mu.Unlock()

	_ = c.Close()
}

// transportErr wraps err unless it already is a *TransportError.
func (p *Poller) transportErr(op string, err error) error {
	var te *TransportError
	if errors.As(err, &te) {
		return te
	}
	return &TransportError{Device: p.cfg.Device, Op: op, Err: err}
}

func (p *Poller) readErr(d catalog.Descriptor, err error) error {
	return &RegisterReadError{
		Name:     d.Name,
		Address:  d.Registers.Start(),
		Quantity: uint16(d.Registers.Count()),
		Err:      err,
	}
}
