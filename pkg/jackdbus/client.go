package jackdbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/germanamz/jackselect/pkg/logging"
)

// Client is a Service backed by a D-Bus connection.
type Client struct {
	conn    *dbus.Conn
	ownConn bool
	obj     dbus.BusObject
	log     zerolog.Logger

	raw     chan *dbus.Signal
	signals chan Signal
	done    chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Connect opens a private connection to the session bus (honouring
// DBUS_SESSION_BUS_ADDRESS) and returns a Client using it.
func Connect() (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("jackdbus: connect session bus: %w", err)
	}

	c, err := newClient(conn, true)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return c, nil
}

// NewClient wraps an existing connection. Close does not close conn.
func NewClient(conn *dbus.Conn) (*Client, error) {
	return newClient(conn, false)
}

func newClient(conn *dbus.Conn, own bool) (*Client, error) {
	c := &Client{
		conn:    conn,
		ownConn: own,
		obj:     conn.Object(ServiceName, ControllerPath),
		log:     logging.Component("jackdbus"),
		raw:     make(chan *dbus.Signal, 16),
		signals: make(chan Signal, 16),
		done:    make(chan struct{}),
	}

	matches := [][]dbus.MatchOption{
		{dbus.WithMatchInterface(ControlIface), dbus.WithMatchObjectPath(ControllerPath)},
		{dbus.WithMatchInterface(BridgeIface), dbus.WithMatchObjectPath(BridgePath)},
	}
	for _, m := range matches {
		if err := conn.AddMatchSignal(m...); err != nil {
			return nil, fmt.Errorf("jackdbus: add signal match: %w", err)
		}
	}

	conn.Signal(c.raw)

	c.wg.Add(1)
	go c.forward()

	return c, nil
}

// forward translates bus signals into Signal values until Close.
func (c *Client) forward() {
	defer c.wg.Done()
	defer close(c.signals)

	for {
		select {
		case <-c.done:
			return
		case s, ok := <-c.raw:
			if !ok {
				return
			}

			kind, known := signalNames[s.Name]
			if !known {
				continue
			}

			select {
			case c.signals <- Signal{Kind: kind, Time: time.Now()}:
			default:
				c.log.Warn().Str("signal", string(kind)).Msg("signal dropped, consumer too slow")
			}
		}
	}
}

// Signals implements Notifier.
func (c *Client) Signals() <-chan Signal { return c.signals }

// Close stops signal delivery and, for connections opened by Connect, closes
// the bus connection.
func (c *Client) Close() error {
	var err error

	c.closeOnce.Do(func() {
		c.conn.RemoveSignal(c.raw)
		close(c.done)
		c.wg.Wait()

		if c.ownConn {
			err = c.conn.Close()
		}
	})

	return err
}

func (c *Client) call(ctx context.Context, iface, method string, args ...any) *dbus.Call {
	select {
	case <-c.done:
		return &dbus.Call{Err: ErrNotConnected}
	default:
	}

	return c.obj.CallWithContext(ctx, iface+"."+method, 0, args...)
}

// ReadContainer implements Configurer.
func (c *Client) ReadContainer(ctx context.Context, path []string) (bool, []string, error) {
	var (
		leaf     bool
		children []string
	)

	if err := c.call(ctx, ConfigureIface, "ReadContainer", path).Store(&leaf, &children); err != nil {
		return false, nil, fmt.Errorf("jackdbus: read container %v: %w", path, err)
	}

	return leaf, children, nil
}

// GetParameterValue implements Configurer.
func (c *Client) GetParameterValue(ctx context.Context, path []string) (Parameter, error) {
	var (
		isSet      bool
		def, value dbus.Variant
	)

	if err := c.call(ctx, ConfigureIface, "GetParameterValue", path).Store(&isSet, &def, &value); err != nil {
		return Parameter{}, fmt.Errorf("jackdbus: get parameter %v: %w", path, err)
	}

	return Parameter{IsSet: isSet, Default: def.Value(), Value: value.Value()}, nil
}

// SetParameterValue implements Configurer.
func (c *Client) SetParameterValue(ctx context.Context, path []string, value any) error {
	v, err := toVariant(value)
	if err != nil {
		return fmt.Errorf("jackdbus: set parameter %v: %w", path, err)
	}

	if err := c.call(ctx, ConfigureIface, "SetParameterValue", path, v).Err; err != nil {
		return fmt.Errorf("jackdbus: set parameter %v: %w", path, err)
	}

	return nil
}

// ResetParameterValue implements Configurer.
func (c *Client) ResetParameterValue(ctx context.Context, path []string) error {
	if err := c.call(ctx, ConfigureIface, "ResetParameterValue", path).Err; err != nil {
		return fmt.Errorf("jackdbus: reset parameter %v: %w", path, err)
	}

	return nil
}

// IsStarted implements Controller.
func (c *Client) IsStarted(ctx context.Context) (bool, error) {
	var started bool
	if err := c.call(ctx, ControlIface, "IsStarted").Store(&started); err != nil {
		return false, fmt.Errorf("jackdbus: is started: %w", err)
	}

	return started, nil
}

// StartServer implements Controller.
func (c *Client) StartServer(ctx context.Context) error {
	if err := c.call(ctx, ControlIface, "StartServer").Err; err != nil {
		return fmt.Errorf("jackdbus: start server: %w", err)
	}

	return nil
}

// StopServer implements Controller.
func (c *Client) StopServer(ctx context.Context) error {
	if err := c.call(ctx, ControlIface, "StopServer").Err; err != nil {
		return fmt.Errorf("jackdbus: stop server: %w", err)
	}

	return nil
}

// GetSampleRate implements Controller.
func (c *Client) GetSampleRate(ctx context.Context) (uint32, error) {
	return c.readUint(ctx, "GetSampleRate")
}

// GetBufferSize implements Controller.
func (c *Client) GetBufferSize(ctx context.Context) (uint32, error) {
	return c.readUint(ctx, "GetBufferSize")
}

// GetXruns implements Controller.
func (c *Client) GetXruns(ctx context.Context) (uint32, error) {
	return c.readUint(ctx, "GetXruns")
}

// GetLoad implements Controller.
func (c *Client) GetLoad(ctx context.Context) (float64, error) {
	return c.readFloat(ctx, "GetLoad")
}

// GetLatency implements Controller.
func (c *Client) GetLatency(ctx context.Context) (float64, error) {
	return c.readFloat(ctx, "GetLatency")
}

func (c *Client) readUint(ctx context.Context, method string) (uint32, error) {
	var v any
	if err := c.call(ctx, ControlIface, method).Store(&v); err != nil {
		return 0, fmt.Errorf("jackdbus: %s: %w", method, err)
	}

	n, err := toUint32(v)
	if err != nil {
		return 0, fmt.Errorf("jackdbus: %s: %w", method, err)
	}

	return n, nil
}

func (c *Client) readFloat(ctx context.Context, method string) (float64, error) {
	var v any
	if err := c.call(ctx, ControlIface, method).Store(&v); err != nil {
		return 0, fmt.Errorf("jackdbus: %s: %w", method, err)
	}

	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("jackdbus: %s: %w", method, err)
	}

	return f, nil
}
