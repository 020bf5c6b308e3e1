// Package port picks a TCP port for the development server.
package port

import (
	"fmt"
	"net"

	"github.com/sjc5/routekit/pkg/errutil"
)

const (
	DefaultPort = 8080
	scanWindow  = 1024
)

// GetFreePort returns preferred when it can be bound. Otherwise it
// scans the following ports and finally asks the kernel for any free
// one. A preferred port of 0 means DefaultPort.
func GetFreePort(preferred int) (int, error) {
	if preferred == 0 {
		preferred = DefaultPort
	}
	if preferred < 0 || preferred > 65535 {
		return 0, fmt.Errorf("port %d out of range", preferred)
	}

	for p := preferred; p < preferred+scanWindow && p <= 65535; p++ {
		if CheckPortAvailability(p) {
			return p, nil
		}
	}

	p, err := GetRandomFreePort()
	if err != nil {
		return preferred, errutil.Maybe("no free port near "+fmt.Sprint(preferred), err)
	}
	return p, nil
}

func CheckPortAvailability(port int) bool {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	ln.Close()
	return true
}

// GetRandomFreePort binds port 0 on localhost and reports what the
// kernel chose.
func GetRandomFreePort() (int, error) {
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, errutil.Maybe("listen", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port, nil
}
