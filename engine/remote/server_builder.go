package remote

import (
	"strings"
	"time"

	"github.com/Carmen-Shannon/roomview/common"
	"github.com/sirupsen/logrus"
)

// ServerBuilderOption is a functional option for configuring a Server during construction.
type ServerBuilderOption func(*serverImpl)

// WithAddr sets the host:port the server listens on. Use ":0" for an ephemeral port.
func WithAddr(addr string) ServerBuilderOption {
	return func(s *serverImpl) {
		s.addr = common.Coalesce(addr, s.addr)
	}
}

// WithPath sets the URL path that accepts websocket upgrades.
func WithPath(path string) ServerBuilderOption {
	return func(s *serverImpl) {
		s.path = common.Coalesce(path, s.path)
	}
}

func WithDispatcher(d Dispatcher) ServerBuilderOption {
	return func(s *serverImpl) {
		s.dispatcher = d
	}
}

func WithLogger(logger logrus.FieldLogger) ServerBuilderOption {
	return func(s *serverImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWriteTimeout bounds every write to a client. Zero disables the deadline.
func WithWriteTimeout(d time.Duration) ServerBuilderOption {
	return func(s *serverImpl) {
		if d >= 0 {
			s.writeTimeout = d
		}
	}
}

// WithSendQueue sets how many outbound messages may wait per client before the client is
// treated as stalled and disconnected.
func WithSendQueue(n int) ServerBuilderOption {
	return func(s *serverImpl) {
		if n > 0 {
			s.sendQueue = n
		}
	}
}

// WithAllowedOrigins lets browser pages from the given origins (scheme://host[:port]) connect in
// addition to same-origin pages. "*" allows any origin.
func WithAllowedOrigins(origins ...string) ServerBuilderOption {
	return func(s *serverImpl) {
		if s.origins == nil {
			s.origins = make(map[string]struct{}, len(origins))
		}
		for _, o := range origins {
			if o = strings.ToLower(strings.TrimSpace(o)); o != "" {
				s.origins[o] = struct{}{}
			}
		}
	}
}
