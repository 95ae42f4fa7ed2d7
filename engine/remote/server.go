// Package remote exposes the room's view buttons over a websocket so an external UI can drive
// the camera and follow transitions.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/roomview/engine/room"
	"github.com/Carmen-Shannon/roomview/engine/transition"
	"github.com/getsentry/sentry-go"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoDispatcher is returned by NewServer when no Dispatcher was supplied.
	ErrNoDispatcher = errors.New("no command dispatcher")
	// ErrUnknownCommand is reported for commands the server does not understand.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrQueueFull is reported when the Dispatcher refuses a command.
	ErrQueueFull = errors.New("command queue full")
)

// Dispatcher runs commands against the room on the goroutine that owns it.
type Dispatcher interface {
	// Submit queues cmd. It returns false if the command could not be queued.
	Submit(cmd func(room.Room)) bool
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(cmd func(room.Room)) bool

// Submit calls f(cmd).
func (f DispatcherFunc) Submit(cmd func(room.Room)) bool {
	return f(cmd)
}

type serverImpl struct {
	mu     *sync.Mutex
	logger logrus.FieldLogger

	addr         string
	path         string
	writeTimeout time.Duration
	sendQueue    int
	origins      map[string]struct{}

	upgrader   websocket.Upgrader
	dispatcher Dispatcher
	conns      map[*safeConn]struct{}
	httpServer *http.Server
	listener   net.Listener
}

// Server is the websocket command surface. Each inbound Command is handed to the Dispatcher and
// answered with a Reply; transition events are broadcast to every connected client.
type Server interface {
	// Handler returns the HTTP handler that upgrades requests to websocket connections.
	//
	// Returns:
	//   - http.Handler: the websocket handler
	Handler() http.Handler

	// Start listens on the configured address and serves until ctx is cancelled or Close is called.
	//
	// Parameters:
	//   - ctx: cancelling it shuts the server down
	//
	// Returns:
	//   - error: listen or serve errors; nil after a clean shutdown
	Start(ctx context.Context) error

	// Addr returns the listening address once Start has bound it, or the configured address.
	//
	// Returns:
	//   - string: the address
	Addr() string

	// TransitionStarted broadcasts a transition_started event. Matches transition callbacks.
	//
	// Parameters:
	//   - ev: the transition
	TransitionStarted(ev transition.Event)

	// TransitionCompleted broadcasts a transition_complete event. Matches transition callbacks.
	//
	// Parameters:
	//   - ev: the transition
	TransitionCompleted(ev transition.Event)

	// ClientCount returns the number of connected clients.
	//
	// Returns:
	//   - int: the client count
	ClientCount() int

	// Close disconnects every client and stops the HTTP server.
	//
	// Returns:
	//   - error: error from shutting down the HTTP server
	Close() error
}

var _ Server = &serverImpl{}

// NewServer creates a websocket Server. WithDispatcher is required. Only same-origin browser
// requests are upgraded unless WithAllowedOrigins widens the set.
//
// Parameters:
//   - options: functional options to configure the server
//
// Returns:
//   - Server: the server, not yet listening
//   - error: ErrNoDispatcher if no dispatcher was supplied
func NewServer(options ...ServerBuilderOption) (Server, error) {
	s := &serverImpl{
		mu:           &sync.Mutex{},
		logger:       logrus.StandardLogger(),
		addr:         "127.0.0.1:8765",
		path:         "/ws",
		writeTimeout: time.Second,
		sendQueue:    32,
		conns:        make(map[*safeConn]struct{}),
	}
	for _, option := range options {
		option(s)
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	if s.dispatcher == nil {
		return nil, fmt.Errorf("remote: new server: %w", ErrNoDispatcher)
	}
	return s, nil
}

// checkOrigin accepts requests without an Origin header, same-origin requests and the origins
// configured with WithAllowedOrigins.
func (s *serverImpl) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if _, ok := s.origins["*"]; ok {
		return true
	}
	if _, ok := s.origins[strings.ToLower(origin)]; ok {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (s *serverImpl) Handler() http.Handler {
	return http.HandlerFunc(s.handleWS)
}

func (s *serverImpl) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("remote: listen %s: %w", s.addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(s.path, s.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	s.mu.Lock()
	s.listener = ln
	s.httpServer = srv
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()

	s.logger.WithFields(logrus.Fields{"addr": ln.Addr().String(), "path": s.path}).Info("remote control listening")
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("remote: serve: %w", err)
	}
	return nil
}

func (s *serverImpl) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func (s *serverImpl) TransitionStarted(ev transition.Event) {
	s.broadcast(Event{Type: MessageTransitionStarted, From: ev.From, To: ev.To, Duration: ev.Duration})
}

func (s *serverImpl) TransitionCompleted(ev transition.Event) {
	s.broadcast(Event{Type: MessageTransitionComplete, From: ev.From, To: ev.To, Duration: ev.Duration})
}

func (s *serverImpl) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *serverImpl) Close() error {
	s.mu.Lock()
	conns := make([]*safeConn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	srv := s.httpServer
	s.httpServer = nil
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (s *serverImpl) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).WithField("remote", r.RemoteAddr).Warn("websocket upgrade failed")
		return
	}
	conn := newSafeConn(ws, s.writeTimeout, s.sendQueue)
	go conn.writeLoop(s.logger.WithField("remote", r.RemoteAddr))

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			sentry.CurrentHub().Recover(rec)
			s.logger.WithFields(logrus.Fields{"remote": r.RemoteAddr, "panic": rec}).Error("remote connection recovered from panic")
		}
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
		s.logger.WithField("remote", r.RemoteAddr).Debug("remote client disconnected")
	}()

	s.logger.WithField("remote", r.RemoteAddr).Debug("remote client connected")
	s.dispatch(conn, Command{Type: CommandState})

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				s.reply(conn, Reply{Type: MessageError, Error: fmt.Sprintf("malformed command: %v", err)})
				continue
			}
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.WithError(err).WithField("remote", r.RemoteAddr).Debug("remote read ended")
			}
			return
		}
		s.dispatch(conn, cmd)
	}
}

// dispatch queues cmd on the room goroutine; the reply is written from there.
func (s *serverImpl) dispatch(conn *safeConn, cmd Command) {
	ok := s.dispatcher.Submit(func(r room.Room) {
		s.reply(conn, execute(r, cmd))
	})
	if !ok {
		s.reply(conn, Reply{Type: MessageError, Command: cmd.Type, Error: ErrQueueFull.Error()})
	}
}

// reply and broadcast only queue messages; a client that cannot keep up is disconnected.
func (s *serverImpl) reply(conn *safeConn, msg Reply) {
	if err := conn.Send(msg); err != nil {
		s.dropped(err, "reply")
	}
}

func (s *serverImpl) broadcast(msg any) {
	s.mu.Lock()
	conns := make([]*safeConn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		if err := c.Send(msg); err != nil {
			s.dropped(err, "broadcast")
		}
	}
}

func (s *serverImpl) dropped(err error, kind string) {
	entry := s.logger.WithError(err).WithField("message", kind)
	if errors.Is(err, errSlowClient) {
		entry.Warn("remote client stalled, disconnecting")
		return
	}
	entry.Debug("remote message dropped")
}

// execute runs one command against the room and builds its reply.
func execute(r room.Room, cmd Command) Reply {
	var err error
	reply := Reply{Type: MessageAck, Command: cmd.Type}

	switch cmd.Type {
	case CommandView:
		switch {
		case cmd.Name != "":
			err = r.RequestViewByName(cmd.Name)
		case cmd.Index != nil:
			err = r.RequestView(*cmd.Index)
		default:
			err = fmt.Errorf("remote: view command needs an index or a name: %w", ErrUnknownCommand)
		}
	case CommandStep:
		err = r.StepView(cmd.Direction)
	case CommandUse:
		used := r.UseItem(cmd.Item)
		reply.Used = &used
		reply.Items = r.Inventory().Items()
	case CommandState:
		reply.Type = MessageState
		reply.Command = ""
		reply.Items = r.Inventory().Items()
	default:
		err = fmt.Errorf("remote: command %q: %w", cmd.Type, ErrUnknownCommand)
	}

	if err != nil {
		reply.Type = MessageError
		reply.Error = err.Error()
	}
	reply.View = r.CurrentViewIndex()
	reply.ViewName = r.CurrentViewName()
	reply.Busy = r.IsBusy()
	return reply
}
