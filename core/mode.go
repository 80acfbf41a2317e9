package core

import "strings"

// Mode 是推荐模式。新增模式只需要在这里加一个值，并在 rank 包注册对应策略。
type Mode int

const (
	ModeCabinet Mode = iota
	ModePersonalized
	ModeTrending
	ModeSimilar
)

var modeNames = [...]string{
	ModeCabinet:      "cabinet",
	ModePersonalized: "personalized",
	ModeTrending:     "trending",
	ModeSimilar:      "similar",
}

// AllModes 按固定顺序返回全部模式。
func AllModes() []Mode {
	return []Mode{ModeCabinet, ModePersonalized, ModeTrending, ModeSimilar}
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// ParseMode 解析模式名（大小写不敏感）。
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == s {
			return Mode(i), nil
		}
	}
	return 0, ErrUnknownMode
}

// MarshalText 让 Mode 可以作为 JSON map key 序列化。
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
