package scriptconv

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/longbridgeapp/opencc"
	"github.com/mozillazg/go-pinyin"
)

// ErrUnavailable reports that a converter could not be constructed.
var ErrUnavailable = errors.New("script converter unavailable")

// Direction selects the conversion applied by a Converter.
type Direction string

const (
	// T2S converts traditional Chinese to simplified.
	T2S Direction = "t2s"
	// S2T converts simplified Chinese to traditional.
	S2T Direction = "s2t"
)

// ParseDirection accepts the short codes and a few spelled-out aliases.
func ParseDirection(value string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "t2s", "traditional-to-simplified", "simplified":
		return T2S, nil
	case "s2t", "simplified-to-traditional", "traditional":
		return S2T, nil
	default:
		return "", fmt.Errorf("unknown conversion direction %q (want t2s or s2t)", value)
	}
}

// Converter converts text between scripts.
type Converter interface {
	Convert(text string, dir Direction) (string, error)
}

// OpenCC is a Converter backed by the OpenCC dictionaries.
type OpenCC struct {
	mu  sync.Mutex
	t2s *opencc.OpenCC
	s2t *opencc.OpenCC
}

// NewOpenCC loads both conversion tables.
func NewOpenCC() (*OpenCC, error) {
	t2s, err := opencc.New(string(T2S))
	if err != nil {
		return nil, fmt.Errorf("%w: load t2s: %v", ErrUnavailable, err)
	}
	s2t, err := opencc.New(string(S2T))
	if err != nil {
		return nil, fmt.Errorf("%w: load s2t: %v", ErrUnavailable, err)
	}
	return &OpenCC{t2s: t2s, s2t: s2t}, nil
}

// Convert applies the requested conversion. A nil receiver returns
// ErrUnavailable.
func (c *OpenCC) Convert(text string, dir Direction) (string, error) {
	if c == nil {
		return "", ErrUnavailable
	}
	var conv *opencc.OpenCC
	switch dir {
	case T2S:
		conv = c.t2s
	case S2T:
		conv = c.s2t
	default:
		return "", fmt.Errorf("unknown conversion direction %q", dir)
	}
	if text == "" {
		return "", nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return conv.Convert(text)
}

// Func adapts a Converter to a plain string function for one direction.
// Conversion errors and a nil converter yield an empty string so the result
// can be fed directly to textutil.Forms.
func Func(conv Converter, dir Direction) func(string) string {
	return func(text string) string {
		if conv == nil {
			return ""
		}
		out, err := conv.Convert(text, dir)
		if err != nil {
			return ""
		}
		return out
	}
}

// BothDirections returns the t2s and s2t adapters for conv.
func BothDirections(conv Converter) []func(string) string {
	return []func(string) string{Func(conv, T2S), Func(conv, S2T)}
}

// Transliterator turns text into phonetic syllables.
type Transliterator interface {
	Transliterate(text string) []string
}

// Pinyin transliterates Han characters to toneless pinyin. Characters
// without a reading are dropped.
type Pinyin struct {
	args pinyin.Args
}

// NewPinyin builds a Pinyin transliterator with toneless output.
func NewPinyin() *Pinyin {
	return &Pinyin{args: pinyin.NewArgs()}
}

// Transliterate returns one syllable per Han character in text.
func (p *Pinyin) Transliterate(text string) []string {
	if p == nil || text == "" {
		return nil
	}
	return pinyin.LazyPinyin(text, p.args)
}
