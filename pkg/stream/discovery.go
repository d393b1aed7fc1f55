package stream

import (
	"net"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/net/ipv4"

	"LSLViewPoint/pkg/async"
)

const (
	MulticastGroup = "239.255.172.215"
	MulticastPort  = 16571

	shortinfoMagic = "LSL:shortinfo"
	maxDatagram    = 65536
)

// responder answers shortinfo queries sent to the multicast group.
type responder struct {
	pc     net.PacketConn
	conn   *ipv4.PacketConn
	server *Server
	logger *zap.Logger
	closed atomic.Bool
	done   <-chan struct{}
}

func listenDiscovery(s *Server, ifname string, port int) (*responder, error) {
	var ifi *net.Interface
	if ifname != "" {
		var err error
		if ifi, err = net.InterfaceByName(ifname); err != nil {
			return nil, errors.Wrapf(err, "stream: interface %s", ifname)
		}
	}

	pc, err := net.ListenPacket("udp4", net.JoinHostPort("0.0.0.0", strconv.Itoa(port)))
	if err != nil {
		return nil, errors.Wrap(err, "stream: listening for discovery failed")
	}
	conn := ipv4.NewPacketConn(pc)
	group := &net.UDPAddr{IP: net.ParseIP(MulticastGroup)}
	if err := conn.JoinGroup(ifi, group); err != nil {
		pc.Close()
		return nil, errors.Wrapf(err, "stream: joining %s failed", MulticastGroup)
	}
	_ = conn.SetMulticastLoopback(true)
	if ifi != nil {
		_ = conn.SetMulticastInterface(ifi)
	}

	r := &responder{
		pc:     pc,
		conn:   conn,
		server: s,
		logger: s.logger.Named("discovery"),
	}
	r.done = async.Job(r.serve)
	r.logger.Info("discovery_listening", zap.String("group", MulticastGroup), zap.Int("port", port))
	return r, nil
}

func (r *responder) serve() {
	buf := make([]byte, maxDatagram)
	for {
		n, _, src, err := r.conn.ReadFrom(buf)
		if err != nil {
			if r.closed.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			r.logger.Warn("discovery_read_failed", zap.Error(err))
			continue
		}
		from, ok := src.(*net.UDPAddr)
		if !ok {
			continue
		}

		port, replies, err := r.server.answer(buf[:n])
		if err != nil {
			r.logger.Debug("discovery_query_ignored", zap.String("from", from.String()), zap.Error(err))
			continue
		}
		dst := &net.UDPAddr{IP: from.IP, Port: port}
		for _, reply := range replies {
			if _, err := r.conn.WriteTo(reply, nil, dst); err != nil {
				r.logger.Warn("discovery_reply_failed", zap.String("to", dst.String()), zap.Error(err))
			}
		}
	}
}

func (r *responder) close() <-chan struct{} {
	r.closed.Store(true)
	r.pc.Close()
	return r.done
}

// parseShortinfo splits a request of the form
//
//	LSL:shortinfo\r\n<query>\r\n<return port> <query id>\r\n
func parseShortinfo(msg []byte) (query string, port int, id string, err error) {
	lines := strings.Split(strings.ReplaceAll(string(msg), "\r\n", "\n"), "\n")
	if len(lines) < 3 || strings.TrimSpace(lines[0]) != shortinfoMagic {
		err = errors.Wrap(ErrQuery, "not a shortinfo request")
		return
	}
	query = strings.TrimSpace(lines[1])

	fields := strings.Fields(lines[2])
	if len(fields) != 2 {
		err = errors.Wrapf(ErrQuery, "return line %q", lines[2])
		return
	}
	if port, err = strconv.Atoi(fields[0]); err != nil || port <= 0 || port > 65535 {
		err = errors.Wrapf(ErrQuery, "return port %q", fields[0])
		return
	}
	id = fields[1]
	return
}

// answer returns the port to reply to and one reply per matching outlet.
func (s *Server) answer(msg []byte) (int, [][]byte, error) {
	query, port, id, err := parseShortinfo(msg)
	if err != nil {
		return 0, nil, err
	}
	q, err := ParseQuery(query)
	if err != nil {
		return 0, nil, err
	}

	var replies [][]byte
	for _, info := range s.Infos() {
		if !q.Matches(info) {
			continue
		}
		doc, err := info.MarshalText()
		if err != nil {
			return 0, nil, err
		}
		replies = append(replies, append([]byte(id+"\r\n"), doc...))
	}
	return port, replies, nil
}
