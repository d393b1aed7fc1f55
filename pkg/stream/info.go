package stream

import (
	"encoding/xml"
	"math"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	FormatDouble64 = "double64"

	// IrregularRate is the nominal rate of streams without a fixed rate.
	IrregularRate = 0.0

	protocolVersion = "1.10"
)

// Channel describes one channel of a stream.
type Channel struct {
	Label string `xml:"label"`
	Unit  string `xml:"unit,omitempty"`
	Type  string `xml:"type,omitempty"`
}

// Info is the declaration of a stream.
type Info struct {
	Name         string
	Type         string
	ChannelCount int
	NominalRate  float64
	Format       string
	SourceID     string

	UID       string
	CreatedAt float64
	Hostname  string
	DataPort  int
	Channels  []Channel
}

// NewInfo declares a double64 stream with one channel per label.
func NewInfo(name, typ string, labels []string, rate float64, sourceID string) Info {
	host, _ := os.Hostname()
	info := Info{
		Name:         name,
		Type:         typ,
		ChannelCount: len(labels),
		NominalRate:  rate,
		Format:       FormatDouble64,
		SourceID:     sourceID,
		UID:          uuid.New().String(),
		CreatedAt:    LocalClock(),
		Hostname:     host,
		Channels:     make([]Channel, len(labels)),
	}
	for i, l := range labels {
		info.Channels[i] = Channel{Label: l, Type: typ}
	}
	return info
}

func (i Info) Validate() error {
	switch {
	case i.Name == "":
		return errors.Wrap(ErrInvalidInfo, "empty name")
	case i.ChannelCount < 1:
		return errors.Wrapf(ErrInvalidInfo, "%s: channel count %d", i.Name, i.ChannelCount)
	case i.NominalRate < 0 || math.IsNaN(i.NominalRate) || math.IsInf(i.NominalRate, 0):
		return errors.Wrapf(ErrInvalidInfo, "%s: nominal rate %v", i.Name, i.NominalRate)
	case len(i.Channels) != 0 && len(i.Channels) != i.ChannelCount:
		return errors.Wrapf(ErrInvalidInfo, "%s: %d channel descriptions for %d channels", i.Name, len(i.Channels), i.ChannelCount)
	case i.Format != FormatDouble64:
		return errors.Wrapf(ErrUnsupportedFormat, "%s: %q", i.Name, i.Format)
	}
	return nil
}

// Labels returns the channel labels in order.
func (i Info) Labels() []string {
	labels := make([]string, len(i.Channels))
	for k, c := range i.Channels {
		labels[k] = c.Label
	}
	return labels
}

type xmlInfo struct {
	XMLName      xml.Name  `xml:"info"`
	Name         string    `xml:"name"`
	Type         string    `xml:"type"`
	ChannelCount int       `xml:"channel_count"`
	NominalRate  string    `xml:"nominal_srate"`
	Format       string    `xml:"channel_format"`
	SourceID     string    `xml:"source_id"`
	Version      string    `xml:"version"`
	CreatedAt    string    `xml:"created_at"`
	UID          string    `xml:"uid"`
	SessionID    string    `xml:"session_id"`
	Hostname     string    `xml:"hostname"`
	DataPort     int       `xml:"v4data_port"`
	Channels     []Channel `xml:"desc>channels>channel"`
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// MarshalText renders the info as an XML document.
func (i Info) MarshalText() ([]byte, error) {
	out, err := xml.MarshalIndent(xmlInfo{
		Name:         i.Name,
		Type:         i.Type,
		ChannelCount: i.ChannelCount,
		NominalRate:  formatFloat(i.NominalRate),
		Format:       i.Format,
		SourceID:     i.SourceID,
		Version:      protocolVersion,
		CreatedAt:    formatFloat(i.CreatedAt),
		UID:          i.UID,
		SessionID:    "default",
		Hostname:     i.Hostname,
		DataPort:     i.DataPort,
		Channels:     i.Channels,
	}, "", "\t")
	if err != nil {
		return nil, errors.Wrap(err, "stream: encoding info failed")
	}
	return append([]byte(xml.Header), out...), nil
}

// UnmarshalText parses a document produced by MarshalText.
func (i *Info) UnmarshalText(data []byte) error {
	var x xmlInfo
	if err := xml.Unmarshal(data, &x); err != nil {
		return errors.Wrap(err, "stream: decoding info failed")
	}
	rate, err := strconv.ParseFloat(x.NominalRate, 64)
	if err != nil {
		return errors.Wrapf(ErrInvalidInfo, "nominal_srate %q", x.NominalRate)
	}
	created, _ := strconv.ParseFloat(x.CreatedAt, 64)
	*i = Info{
		Name:         x.Name,
		Type:         x.Type,
		ChannelCount: x.ChannelCount,
		NominalRate:  rate,
		Format:       x.Format,
		SourceID:     x.SourceID,
		UID:          x.UID,
		CreatedAt:    created,
		Hostname:     x.Hostname,
		DataPort:     x.DataPort,
		Channels:     x.Channels,
	}
	return nil
}
