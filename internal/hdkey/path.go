package hdkey

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HardenedOffset is added to the index of hardened segments (2^31).
const HardenedOffset uint32 = 0x80000000

// BIP-44 levels.
const (
	PurposeBIP44   = 44
	CoinTypeBTC    = 0
	CoinTypeETH    = 60
	CoinTypeTRX    = 195
	ChangeExternal = 0
	ChangeInternal = 1
)

// DefaultPath is the first Ethereum account address.
const DefaultPath = "m/44'/60'/0'/0/0"

var pathPattern = regexp.MustCompile(`^m(/\d+'?)+$`)

// Segment is one derivation step.
type Segment struct {
	Index    uint32
	Hardened bool
}

// ChildIndex is the 32-bit index serialized into the HMAC input.
func (s Segment) ChildIndex() uint32 {
	if s.Hardened {
		return s.Index + HardenedOffset
	}
	return s.Index
}

func (s Segment) String() string {
	if s.Hardened {
		return strconv.FormatUint(uint64(s.Index), 10) + "'"
	}
	return strconv.FormatUint(uint64(s.Index), 10)
}

// Path is an ordered list of derivation steps below the master key.
type Path []Segment

// ParsePath parses "m/44'/60'/0'/0/0" style paths. The string must match
// ^m(/\d+'?)+$ and every index must be below 2^31.
func ParsePath(s string) (Path, error) {
	if !pathPattern.MatchString(s) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, s)
	}
	parts := strings.Split(s, "/")[1:]
	path := make(Path, 0, len(parts))
	for _, part := range parts {
		hardened := strings.HasSuffix(part, "'")
		v, err := strconv.ParseUint(strings.TrimSuffix(part, "'"), 10, 32)
		if err != nil || uint32(v) >= HardenedOffset {
			return nil, fmt.Errorf("%w: index %s out of range [0, %d]", ErrInvalidPath, part, HardenedOffset-1)
		}
		path = append(path, Segment{Index: uint32(v), Hardened: hardened})
	}
	return path, nil
}

// MustParsePath is ParsePath for constant inputs; it panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// BIP44 returns m/44'/coin'/account'/change/index.
func BIP44(coin, account, change, index uint32) Path {
	return Path{
		{Index: PurposeBIP44, Hardened: true},
		{Index: coin, Hardened: true},
		{Index: account, Hardened: true},
		{Index: change},
		{Index: index},
	}
}

// String renders the canonical textual form.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, s := range p {
		b.WriteByte('/')
		b.WriteString(s.String())
	}
	return b.String()
}

// Validate checks that every index is below 2^31.
func (p Path) Validate() error {
	for i, s := range p {
		if s.Index >= HardenedOffset {
			return fmt.Errorf("%w: segment %d index %d out of range", ErrInvalidPath, i, s.Index)
		}
	}
	return nil
}

// Level describes one segment of a path for display.
type Level struct {
	Segment Segment
	Name    string
	Detail  string
}

var coinNames = map[uint32]string{
	CoinTypeBTC: "Bitcoin",
	CoinTypeETH: "Ethereum",
	CoinTypeTRX: "Tron",
}

// Describe labels each segment. Five-segment paths under purpose 44' get
// BIP-44 names, anything else is labelled by depth.
func (p Path) Describe() []Level {
	levels := make([]Level, len(p))
	bip44 := len(p) == 5 && p[0] == Segment{Index: PurposeBIP44, Hardened: true}
	for i, s := range p {
		levels[i] = Level{Segment: s, Name: fmt.Sprintf("level %d", i+1)}
		if !bip44 {
			continue
		}
		switch i {
		case 0:
			levels[i].Name, levels[i].Detail = "purpose", "BIP-44 wallet structure"
		case 1:
			levels[i].Name = "coin type"
			if name, ok := coinNames[s.Index]; ok {
				levels[i].Detail = fmt.Sprintf("%s (%d)", name, s.Index)
			} else {
				levels[i].Detail = fmt.Sprintf("coin %d", s.Index)
			}
		case 2:
			levels[i].Name, levels[i].Detail = "account", fmt.Sprintf("account #%d", s.Index)
		case 3:
			levels[i].Name = "change"
			switch s.Index {
			case ChangeExternal:
				levels[i].Detail = "external (receiving) addresses"
			case ChangeInternal:
				levels[i].Detail = "internal (change) addresses"
			default:
				levels[i].Detail = fmt.Sprintf("chain %d", s.Index)
			}
		case 4:
			levels[i].Name, levels[i].Detail = "address index", fmt.Sprintf("key #%d", s.Index)
		}
	}
	return levels
}
