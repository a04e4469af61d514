// Package platform holds desktop integration helpers.
package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another board already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	minLockPort = 20000
	maxLockPort = 39999

	showRequest  = "show"
	showAccepted = "ok"
)

// InstanceGuard holds the single-instance lock for the lifetime of the app.
// While held it answers show requests from later launches.
type InstanceGuard struct {
	mu       sync.Mutex
	listener net.Listener
}

// AcquireSingleInstance binds a localhost port derived from appName. A
// second process using the same name gets ErrAlreadyRunning.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := lockAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, address)
	}
	return &InstanceGuard{listener: listener}, nil
}

// Serve accepts show requests and calls onShow for each one. It returns
// once the guard is released.
func (guard *InstanceGuard) Serve(onShow func()) error {
	if guard == nil {
		return nil
	}
	guard.mu.Lock()
	listener := guard.listener
	guard.mu.Unlock()
	if listener == nil {
		return nil
	}
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept show request: %w", err)
		}
		if handleShow(conn) && onShow != nil {
			onShow()
		}
	}
}

// Release frees the lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil {
		return nil
	}
	guard.mu.Lock()
	defer guard.mu.Unlock()
	if guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	guard.listener = nil
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	guard.mu.Lock()
	defer guard.mu.Unlock()
	if guard.listener == nil {
		return ""
	}
	return guard.listener.Addr().String()
}

// RequestShow asks the instance holding the lock for appName to bring its
// board to the front.
func RequestShow(appName string, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", lockAddress(appName), timeout)
	if err != nil {
		return fmt.Errorf("dial running instance: %w", err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	if _, err := fmt.Fprintln(conn, showRequest); err != nil {
		return fmt.Errorf("send show request: %w", err)
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read show reply: %w", err)
	}
	if strings.TrimSpace(reply) != showAccepted {
		return fmt.Errorf("unexpected show reply %q", strings.TrimSpace(reply))
	}
	return nil
}

// LockPort maps an app name onto the lock port range.
func LockPort(appName string) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	return minLockPort + int(hash.Sum32()%uint32(maxLockPort-minLockPort+1))
}

func lockAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", LockPort(appName))
}

// handleShow reads one request line and acknowledges it. Anything other than
// a show request is dropped.
func handleShow(conn net.Conn) bool {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(time.Second))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil || strings.TrimSpace(line) != showRequest {
		return false
	}
	_, err = fmt.Fprintln(conn, showAccepted)
	return err == nil
}
