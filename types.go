package cms

import "fmt"

// Logger is the minimal logging surface the package needs. The server
// wires a real implementation (glog); tests and zero-config callers fall
// back to defLogger.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated subject.
type Identity interface {
	ID() string
	Email() string
	Role() Role
}

// Config holds the process-wide settings consumed by the token service,
// the storage layer, and the startup seed. Implementations are built once
// at startup and never mutated.
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetListenAddr() string
	GetDSN() string
	GetUploadsDir() string
	GetSeedAdminName() string
	GetSeedAdminEmail() string
	GetSeedAdminPassword() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] CMS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] CMS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] CMS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] CMS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
