// Package env connects a bench to the outside world: MQTT, event logs,
// serial ports and the HTTP monitor.
package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID salts the machine ID so it is not exposed as is.
const AppID = "uart.go"

// MachineID retrieves the ID identifying this machine, falling back to the
// host name when the platform does not provide one.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err == nil {
		return id[:12]
	}
	glog.V(1).Infof("machine ID unavailable: %v", err)
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "bench"
}
