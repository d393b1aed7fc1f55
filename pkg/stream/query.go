package stream

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type predicate struct {
	key, value string
}

// Query selects streams by their declared properties, e.g. name='ViewPoint' and type='Gaze'.
// The empty query matches every stream.
type Query []predicate

func ParseQuery(s string) (Query, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var q Query
	for {
		key, rest, ok := strings.Cut(s, "=")
		if !ok {
			return nil, errors.Wrapf(ErrQuery, "%q", s)
		}
		key = strings.TrimSpace(key)
		switch key {
		case "name", "type", "source_id", "uid", "hostname", "channel_count", "channel_format":
		default:
			return nil, errors.Wrapf(ErrQuery, "unknown property %q", key)
		}

		// values are quoted and may hold spaces or " and "
		rest = strings.TrimLeft(rest, " ")
		if rest == "" || (rest[0] != '\'' && rest[0] != '"') {
			return nil, errors.Wrapf(ErrQuery, "unquoted value for %s", key)
		}
		end := strings.IndexByte(rest[1:], rest[0])
		if end < 0 {
			return nil, errors.Wrapf(ErrQuery, "unterminated value for %s", key)
		}
		q = append(q, predicate{key, rest[1 : end+1]})

		s = strings.TrimSpace(rest[end+2:])
		if s == "" {
			return q, nil
		}
		next, ok := strings.CutPrefix(s, "and ")
		if !ok {
			return nil, errors.Wrapf(ErrQuery, "expected and before %q", s)
		}
		s = strings.TrimSpace(next)
	}
}

func (q Query) Matches(info Info) bool {
	for _, p := range q {
		var got string
		switch p.key {
		case "name":
			got = info.Name
		case "type":
			got = info.Type
		case "source_id":
			got = info.SourceID
		case "uid":
			got = info.UID
		case "hostname":
			got = info.Hostname
		case "channel_count":
			got = strconv.Itoa(info.ChannelCount)
		case "channel_format":
			got = info.Format
		}
		if got != p.value {
			return false
		}
	}
	return true
}
