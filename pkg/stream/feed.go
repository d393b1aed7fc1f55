package stream

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	feedMagic     = "LSL-VIEWPOINT:streamfeed/1"
	maxHeaderSize = 1 << 20
	maxChannels   = 1 << 16
)

// a header is the magic line followed by the length prefixed info document
func encodeHeader(info Info) ([]byte, error) {
	doc, err := info.MarshalText()
	if err != nil {
		return nil, err
	}
	b := make([]byte, 0, len(feedMagic)+2+4+len(doc))
	b = append(b, feedMagic+"\r\n"...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(doc)))
	return append(b, doc...), nil
}

// a frame is the timestamp followed by every value, all little endian float64
func encodeFrame(b []byte, timestamp float64, values []float64) []byte {
	b = binary.LittleEndian.AppendUint64(b, math.Float64bits(timestamp))
	for _, v := range values {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
	}
	return b
}

// Inlet reads the feed of one outlet.
type Inlet struct {
	conn net.Conn
	r    *bufio.Reader
	info Info
	buf  []byte
}

// Dial connects to the data port of an outlet and reads its header.
func Dial(addr string, timeout time.Duration) (*Inlet, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "stream: dialing %s failed", addr)
	}
	in := &Inlet{conn: conn, r: bufio.NewReader(conn)}

	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	if err := in.readHeader(); err != nil {
		conn.Close()
		return nil, err
	}
	_ = conn.SetReadDeadline(time.Time{})

	in.buf = make([]byte, 8*(in.info.ChannelCount+1))
	return in, nil
}

func (in *Inlet) readHeader() error {
	line, err := in.r.ReadString('\n')
	if err != nil {
		return errors.Wrap(err, "stream: reading feed header failed")
	}
	if strings.TrimSpace(line) != feedMagic {
		return errors.Errorf("stream: unexpected feed header %q", line)
	}

	var size uint32
	if err := binary.Read(in.r, binary.LittleEndian, &size); err != nil {
		return errors.Wrap(err, "stream: reading feed header failed")
	}
	if size > maxHeaderSize {
		return errors.Errorf("stream: feed header of %d bytes", size)
	}
	doc := make([]byte, size)
	if _, err := io.ReadFull(in.r, doc); err != nil {
		return errors.Wrap(err, "stream: reading feed header failed")
	}
	if err := in.info.UnmarshalText(doc); err != nil {
		return err
	}
	if in.info.ChannelCount > maxChannels {
		return errors.Wrapf(ErrInvalidInfo, "%s: channel count %d", in.info.Name, in.info.ChannelCount)
	}
	return in.info.Validate()
}

func (in *Inlet) Info() Info { return in.info }

// Pull blocks until the next sample arrives.
func (in *Inlet) Pull() (timestamp float64, values []float64, err error) {
	if _, err = io.ReadFull(in.r, in.buf); err != nil {
		return
	}
	timestamp = math.Float64frombits(binary.LittleEndian.Uint64(in.buf))
	values = make([]float64, in.info.ChannelCount)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(in.buf[8*(i+1):]))
	}
	return
}

func (in *Inlet) SetDeadline(t time.Time) error {
	return in.conn.SetReadDeadline(t)
}

func (in *Inlet) Close() error {
	return in.conn.Close()
}
