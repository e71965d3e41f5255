// Package control exports jack-select's own session-bus service, used to
// query and drive a running instance from another process, and provides a
// client for it. Only one instance can own the service name at a time.
package control

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/rs/zerolog"

	"github.com/germanamz/jackselect/pkg/logging"
)

const (
	ServiceName = "de.chrisarndt.JackSelectService"
	ObjectPath  = dbus.ObjectPath("/de/chrisarndt/JackSelectApp")
	Iface       = "de.chrisarndt.JackSelectInterface"
)

// ErrAlreadyRunning is returned by Export when another process owns the
// service name.
var ErrAlreadyRunning = errors.New("control: another instance is already running")

// Handler carries out the requests received over the bus.
type Handler interface {
	PresetNames() []string
	ActivatePreset(ctx context.Context, name string) error
	OpenMenu()
	Exit()
}

const introspectXML = `
<node>
	<interface name="` + Iface + `">
		<method name="GetPid">
			<arg direction="out" type="i"/>
		</method>
		<method name="Exit"/>
		<method name="OpenMenu"/>
		<method name="ListPresets">
			<arg direction="out" type="as"/>
		</method>
		<method name="ActivatePreset">
			<arg direction="in" type="s"/>
			<arg direction="out" type="b"/>
		</method>
	</interface>` + introspect.IntrospectDataString + `</node>`

// object is the value exported on the bus. Its exported methods become the
// methods of Iface.
type object struct {
	h   Handler
	log zerolog.Logger
	pid int32
}

func (o *object) GetPid() (int32, *dbus.Error) {
	return o.pid, nil
}

func (o *object) Exit() *dbus.Error {
	o.log.Info().Msg("exit requested")
	o.h.Exit()
	return nil
}

func (o *object) OpenMenu() *dbus.Error {
	o.h.OpenMenu()
	return nil
}

func (o *object) ListPresets() ([]string, *dbus.Error) {
	names := o.h.PresetNames()
	if names == nil {
		names = []string{}
	}

	return names, nil
}

func (o *object) ActivatePreset(name string) (bool, *dbus.Error) {
	if err := o.h.ActivatePreset(context.Background(), name); err != nil {
		o.log.Error().Err(err).Str("preset", name).Msg("remote activation failed")
		return false, nil
	}

	return true, nil
}

// Server is an exported control service.
type Server struct {
	conn *dbus.Conn
}

// Export publishes h on conn and claims the service name.
func Export(conn *dbus.Conn, h Handler) (*Server, error) {
	obj := &object{h: h, log: logging.Component("control"), pid: int32(os.Getpid())}

	if err := conn.Export(obj, ObjectPath, Iface); err != nil {
		return nil, fmt.Errorf("control: export: %w", err)
	}
	if err := conn.Export(introspect.Introspectable(introspectXML), ObjectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return nil, fmt.Errorf("control: export introspection: %w", err)
	}

	reply, err := conn.RequestName(ServiceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, fmt.Errorf("control: request name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, ErrAlreadyRunning
	}

	return &Server{conn: conn}, nil
}

// Close releases the service name and unexports the object.
func (s *Server) Close() error {
	_ = s.conn.Export(nil, ObjectPath, Iface)
	_ = s.conn.Export(nil, ObjectPath, "org.freedesktop.DBus.Introspectable")

	if _, err := s.conn.ReleaseName(ServiceName); err != nil {
		return fmt.Errorf("control: release name: %w", err)
	}

	return nil
}

// Client calls the control service of a running instance.
type Client struct {
	obj dbus.BusObject
}

// NewClient creates a Client on conn.
func NewClient(conn *dbus.Conn) *Client {
	return &Client{obj: conn.Object(ServiceName, ObjectPath)}
}

func (c *Client) call(ctx context.Context, method string, args ...any) *dbus.Call {
	return c.obj.CallWithContext(ctx, Iface+"."+method, 0, args...)
}

// Pid returns the process id of the running instance.
func (c *Client) Pid(ctx context.Context) (int32, error) {
	var pid int32
	if err := c.call(ctx, "GetPid").Store(&pid); err != nil {
		return 0, fmt.Errorf("control: get pid: %w", err)
	}

	return pid, nil
}

// ListPresets returns the preset names known to the running instance.
func (c *Client) ListPresets(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.call(ctx, "ListPresets").Store(&names); err != nil {
		return nil, fmt.Errorf("control: list presets: %w", err)
	}

	return names, nil
}

// ActivatePreset asks the running instance to activate name.
func (c *Client) ActivatePreset(ctx context.Context, name string) (bool, error) {
	var ok bool
	if err := c.call(ctx, "ActivatePreset", name).Store(&ok); err != nil {
		return false, fmt.Errorf("control: activate preset: %w", err)
	}

	return ok, nil
}

// OpenMenu asks the running instance to show its menu.
func (c *Client) OpenMenu(ctx context.Context) error {
	if err := c.call(ctx, "OpenMenu").Err; err != nil {
		return fmt.Errorf("control: open menu: %w", err)
	}

	return nil
}

// Exit asks the running instance to quit.
func (c *Client) Exit(ctx context.Context) error {
	if err := c.call(ctx, "Exit").Err; err != nil {
		return fmt.Errorf("control: exit: %w", err)
	}

	return nil
}
