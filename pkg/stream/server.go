package stream

import (
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"LSLViewPoint/pkg/async"
)

const writeTimeout = 250 * time.Millisecond

type ServerOptions struct {
	Host          string // bind address of the data ports, empty for every interface
	Interface     string // multicast interface, empty for the system default
	Discovery     bool
	DiscoveryPort int // 0 means MulticastPort
	Logger        *zap.Logger
	Metrics       *Metrics
}

// Server is a Network whose outlets are served over TCP and announced over multicast.
type Server struct {
	opts   ServerOptions
	logger *zap.Logger

	mu        sync.Mutex
	outlets   map[*tcpOutlet]struct{}
	discovery *responder
	closed    bool
}

func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DiscoveryPort == 0 {
		opts.DiscoveryPort = MulticastPort
	}
	s := &Server{
		opts:    opts,
		logger:  opts.Logger.Named("stream"),
		outlets: make(map[*tcpOutlet]struct{}),
	}
	if opts.Discovery {
		r, err := listenDiscovery(s, opts.Interface, opts.DiscoveryPort)
		if err != nil {
			return nil, err
		}
		s.discovery = r
	}
	return s, nil
}

func (s *Server) NewOutlet(info Info) (Outlet, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(s.opts.Host, "0"))
	if err != nil {
		return nil, errors.Wrapf(err, "stream: listening for %s failed", info.Name)
	}
	info.DataPort = ln.Addr().(*net.TCPAddr).Port

	header, err := encodeHeader(info)
	if err != nil {
		ln.Close()
		return nil, err
	}

	o := &tcpOutlet{
		info:    info,
		server:  s,
		ln:      ln,
		header:  header,
		logger:  s.logger.With(zap.String("stream", info.Name)),
		metrics: s.opts.Metrics,
	}
	o.done = async.Job(o.accept)
	s.outlets[o] = struct{}{}

	o.logger.Info("outlet_opened",
		zap.String("addr", ln.Addr().String()),
		zap.Int("channels", info.ChannelCount),
		zap.Float64("rate", info.NominalRate),
		zap.String("uid", info.UID),
	)
	return o, nil
}

// Infos returns the streams of every open outlet.
func (s *Server) Infos() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	infos := make([]Info, 0, len(s.outlets))
	for o := range s.outlets {
		infos = append(infos, o.info)
	}
	return infos
}

func (s *Server) remove(o *tcpOutlet) {
	s.mu.Lock()
	delete(s.outlets, o)
	s.mu.Unlock()
}

// Close closes every outlet and stops answering discovery queries.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.closed = true
	outlets := make([]*tcpOutlet, 0, len(s.outlets))
	for o := range s.outlets {
		outlets = append(outlets, o)
	}
	s.mu.Unlock()

	var done []<-chan struct{}
	if s.discovery != nil {
		done = append(done, s.discovery.close())
	}
	for _, o := range outlets {
		o := o
		done = append(done, async.Job(func() { _ = o.Close() }))
	}
	<-async.Gather0(done...)
	return nil
}

type tcpOutlet struct {
	info    Info
	server  *Server
	ln      net.Listener
	header  []byte
	logger  *zap.Logger
	metrics *Metrics
	done    <-chan struct{}

	mu        sync.Mutex
	consumers []net.Conn
	frame     []byte
	closed    bool
}

func (o *tcpOutlet) Info() Info { return o.info }

func (o *tcpOutlet) accept() {
	for {
		conn, err := o.ln.Accept()
		if err != nil {
			o.mu.Lock()
			closed := o.closed
			o.mu.Unlock()
			if !closed {
				o.logger.Error("accept_failed", zap.Error(err))
			}
			return
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := conn.Write(o.header); err != nil {
			o.logger.Warn("header_failed", zap.String("remote", conn.RemoteAddr().String()), zap.Error(err))
			conn.Close()
			continue
		}

		o.mu.Lock()
		if o.closed {
			o.mu.Unlock()
			conn.Close()
			return
		}
		o.consumers = append(o.consumers, conn)
		n := len(o.consumers)
		o.mu.Unlock()

		o.metrics.sent(o.info.Name, len(o.header))
		o.metrics.consumers(o.info.Name, n)
		o.logger.Info("consumer_connected", zap.String("remote", conn.RemoteAddr().String()), zap.Int("consumers", n))
	}
}

func (o *tcpOutlet) PushSample(values []float64, timestamp float64) error {
	if err := checkSample(o.info, values); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}

	o.frame = encodeFrame(o.frame[:0], timestamp, values)
	deadline := time.Now().Add(writeTimeout)
	kept, sent := o.consumers[:0], 0
	for _, c := range o.consumers {
		_ = c.SetWriteDeadline(deadline)
		n, err := c.Write(o.frame)
		sent += n
		if err != nil {
			o.logger.Info("consumer_dropped", zap.String("remote", c.RemoteAddr().String()), zap.Error(err))
			c.Close()
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(o.consumers); i++ {
		o.consumers[i] = nil
	}
	if len(kept) != len(o.consumers) {
		o.metrics.consumers(o.info.Name, len(kept))
	}
	o.consumers = kept

	o.metrics.pushed(o.info.Name)
	o.metrics.sent(o.info.Name, sent)
	return nil
}

func (o *tcpOutlet) Close() error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return ErrClosed
	}
	o.closed = true
	for _, c := range o.consumers {
		c.Close()
	}
	o.consumers = nil
	o.mu.Unlock()

	_ = o.ln.Close()
	<-o.done
	o.server.remove(o)
	o.metrics.consumers(o.info.Name, 0)
	o.logger.Info("outlet_closed")
	return nil
}
