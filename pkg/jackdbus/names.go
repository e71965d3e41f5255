package jackdbus

// Well-known names of the JACK D-Bus service and the a2jmidid bridge.
const (
	ServiceName       = "org.jackaudio.service"
	ControllerPath    = "/org/jackaudio/Controller"
	ConfigureIface    = "org.jackaudio.Configure"
	ControlIface      = "org.jackaudio.JackControl"
	BridgeServiceName = "org.gna.home.a2jmidid"
	BridgePath        = "/"
	BridgeIface       = "org.gna.home.a2jmidid.control"
)

var signalNames = map[string]SignalKind{
	ControlIface + ".ServerStarted": SignalServerStarted,
	ControlIface + ".ServerStopped": SignalServerStopped,
	BridgeIface + ".bridge_started": SignalBridgeStarted,
	BridgeIface + ".bridge_stopped": SignalBridgeStopped,
}
