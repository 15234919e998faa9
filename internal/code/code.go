// Package code encodes the parameters needed for blind extraction into a
// single decimal string.
//
// Layout, all ASCII digits without delimiters:
//
//	off1(1) height(off1) off2(1) width(off2) channel(1) filter(1)
//	raw(3) strength(5) off3(4) crypted(off3) content(rest)
package code

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMalformed = errors.New("malformed extraction code")
	ErrOverflow  = errors.New("extraction code field overflow")
)

const (
	rawWidth      = 3
	strengthWidth = 5
	offWidth      = 4

	maxChannel = 2
	maxFilter  = 3
	maxRaw     = 63
)

// Code holds every parameter of an extraction code.
type Code struct {
	Height, Width int
	Channel       int
	Filter        int
	Raw           int
	Strength      int
	CryptedKey    uint64
	ContentKey    uint64
}

// Encode serializes c. It fails when a field does not fit its width.
func (c Code) Encode() (string, error) {
	if err := c.validate(); err != nil {
		return "", err
	}
	height := strconv.Itoa(c.Height)
	width := strconv.Itoa(c.Width)
	if len(height) > 9 || len(width) > 9 {
		return "", fmt.Errorf("%w: dimensions %dx%d", ErrOverflow, c.Width, c.Height)
	}
	if c.Strength < 0 || c.Strength > 99999 {
		return "", fmt.Errorf("%w: strength %d", ErrOverflow, c.Strength)
	}
	crypted := strconv.FormatUint(c.CryptedKey, 10)

	var b strings.Builder
	b.WriteString(strconv.Itoa(len(height)))
	b.WriteString(height)
	b.WriteString(strconv.Itoa(len(width)))
	b.WriteString(width)
	b.WriteString(strconv.Itoa(c.Channel))
	b.WriteString(strconv.Itoa(c.Filter))
	fmt.Fprintf(&b, "%0*d", rawWidth, c.Raw)
	fmt.Fprintf(&b, "%0*d", strengthWidth, c.Strength)
	fmt.Fprintf(&b, "%0*d", offWidth, len(crypted))
	b.WriteString(crypted)
	b.WriteString(strconv.FormatUint(c.ContentKey, 10))
	return b.String(), nil
}

func (c Code) String() string {
	s, err := c.Encode()
	if err != nil {
		return err.Error()
	}
	return s
}

// Parse decodes s. Spaces are ignored; any other non-digit, a truncated or
// empty field, or an out-of-range channel, filter or raw index is rejected.
func Parse(s string) (Code, error) {
	s = strings.ReplaceAll(s, " ", "")
	for _, r := range s {
		if r < '0' || r > '9' {
			return Code{}, fmt.Errorf("%w: non-digit %q", ErrMalformed, r)
		}
	}

	r := reader{s: s}
	var c Code
	c.Height = r.prefixed(1, "height")
	c.Width = r.prefixed(1, "width")
	c.Channel = r.readInt(1, "channel")
	c.Filter = r.readInt(1, "filter")
	c.Raw = r.readInt(rawWidth, "raw index")
	c.Strength = r.readInt(strengthWidth, "strength")
	n := r.readInt(offWidth, "crypted key length")
	c.CryptedKey = r.readUint(n, "crypted key")
	c.ContentKey = r.readUint(len(r.s)-r.at, "content key")
	if r.err != nil {
		return Code{}, r.err
	}
	if err := c.validate(); err != nil {
		return Code{}, err
	}
	return c, nil
}

func (c Code) validate() error {
	switch {
	case c.Channel < 0 || c.Channel > maxChannel:
		return fmt.Errorf("%w: channel %d", ErrMalformed, c.Channel)
	case c.Filter < 0 || c.Filter > maxFilter:
		return fmt.Errorf("%w: filter %d", ErrMalformed, c.Filter)
	case c.Raw < 0 || c.Raw > maxRaw:
		return fmt.Errorf("%w: raw index %d", ErrMalformed, c.Raw)
	case c.Height < 0 || c.Width < 0:
		return fmt.Errorf("%w: dimensions %dx%d", ErrMalformed, c.Width, c.Height)
	}
	return nil
}

func (c Code) MarshalText() ([]byte, error) {
	s, err := c.Encode()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText replaces c only when text parses.
func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// reader consumes fixed-width fields and keeps the first error.
type reader struct {
	s   string
	at  int
	err error
}

func (r *reader) next(n int, name string) string {
	if r.err != nil {
		return ""
	}
	if n <= 0 || r.at+n > len(r.s) {
		r.err = fmt.Errorf("%w: missing %s", ErrMalformed, name)
		return ""
	}
	field := r.s[r.at : r.at+n]
	r.at += n
	return field
}

func (r *reader) readInt(n int, name string) int {
	field := r.next(n, name)
	if r.err != nil {
		return 0
	}
	v, err := strconv.Atoi(field)
	if err != nil {
		r.err = fmt.Errorf("%w: %s: %w", ErrMalformed, name, err)
	}
	return v
}

func (r *reader) readUint(n int, name string) uint64 {
	field := r.next(n, name)
	if r.err != nil {
		return 0
	}
	v, err := strconv.ParseUint(field, 10, 64)
	if err != nil {
		r.err = fmt.Errorf("%w: %s: %w", ErrMalformed, name, err)
	}
	return v
}

// prefixed reads a length digit followed by that many digits.
func (r *reader) prefixed(n int, name string) int {
	return r.readInt(r.readInt(n, name+" length"), name)
}
