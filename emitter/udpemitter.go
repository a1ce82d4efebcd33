package emitter

import (
	"net"
	"sync"

	"github.com/tebeka/atexit"
	"go.uber.org/zap"

	"github.com/nimbustrace/nimbus/config"
	"github.com/nimbustrace/nimbus/tracing"
)

// DefaultDaemonAddr is where the collector daemon listens unless the
// environment overrides it.
const DefaultDaemonAddr = "127.0.0.1:2000"

// An Emitter ships closed entities out of the process.
type Emitter interface {
	Emit(e tracing.Entity)
}

// UDPEmitter sends entity documents to the collector daemon as UDP
// datagrams, one entity tree per datagram. Sending never blocks the
// traced code path on daemon availability; failures are logged and
// dropped.
type UDPEmitter struct {
	lock   sync.Mutex
	conn   net.Conn
	logger *zap.Logger
}

// NewUDPEmitter dials the collector daemon. An empty addr falls back to
// the environment, then to DefaultDaemonAddr. The connection is closed
// on process exit.
func NewUDPEmitter(addr string, logger *zap.Logger) (*UDPEmitter, error) {
	if addr == "" {
		addr = config.DaemonAddr(DefaultDaemonAddr)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	e := &UDPEmitter{
		conn:   conn,
		logger: logger,
	}
	atexit.Register(e.Close)

	return e, nil
}

// Emit serializes the entity tree and sends it as one datagram.
func (e *UDPEmitter) Emit(entity tracing.Entity) {
	body, err := Marshal(entity)
	if err != nil {
		e.logger.Error("encode entity",
			zap.String("entity", entity.EntityID()),
			zap.Error(err))
		return
	}

	packet := append([]byte(Header), body...)

	e.lock.Lock()
	defer e.lock.Unlock()

	if e.conn == nil {
		return
	}

	if _, err := e.conn.Write(packet); err != nil {
		e.logger.Error("send entity",
			zap.String("entity", entity.EntityID()),
			zap.Error(err))
	}
}

// Close shuts the connection down. Safe to call more than once.
func (e *UDPEmitter) Close() {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.conn == nil {
		return
	}

	if err := e.conn.Close(); err != nil {
		e.logger.Error("close emitter", zap.Error(err))
	}

	e.conn = nil
}
