package qr

import (
	"errors"
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	DefaultWidth  = 640
	DefaultMargin = 2
	DefaultDark   = "#000000"
	DefaultLight  = "#ffffff"
	DefaultLevel  = "M"

	MaxWidth  = 4096
	MaxMargin = 40
)

var (
	ErrEmptyInput      = errors.New("qr: empty input")
	ErrInvalidSettings = errors.New("qr: invalid settings")
)

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Settings is the rendering configuration stored on a club row. Nil or empty
// fields fall back to the renderer defaults.
type Settings struct {
	Width                *int    `json:"width,omitempty" koanf:"width"`
	Margin               *int    `json:"margin,omitempty" koanf:"margin"`
	Color                *Colors `json:"color,omitempty" koanf:"color"`
	ErrorCorrectionLevel string  `json:"errorCorrectionLevel,omitempty" koanf:"error_correction_level"`
}

type Colors struct {
	Dark  string `json:"dark,omitempty" koanf:"dark"`
	Light string `json:"light,omitempty" koanf:"light"`
}

// DefaultSettings returns the system-wide defaults: 640px, margin 2,
// black on white, level M.
func DefaultSettings() Settings {
	return Settings{
		Width:                intPtr(DefaultWidth),
		Margin:               intPtr(DefaultMargin),
		Color:                &Colors{Dark: DefaultDark, Light: DefaultLight},
		ErrorCorrectionLevel: DefaultLevel,
	}
}

// IsZero reports whether no field has been set.
func (s Settings) IsZero() bool {
	return s.Width == nil && s.Margin == nil && s.ErrorCorrectionLevel == "" &&
		(s.Color == nil || (s.Color.Dark == "" && s.Color.Light == ""))
}

// Merge returns s with every unset field taken from base.
func (s Settings) Merge(base Settings) Settings {
	out := Settings{
		Width:                s.Width,
		Margin:               s.Margin,
		ErrorCorrectionLevel: s.ErrorCorrectionLevel,
		Color:                &Colors{},
	}
	if out.Width == nil {
		out.Width = base.Width
	}
	if out.Margin == nil {
		out.Margin = base.Margin
	}
	if out.ErrorCorrectionLevel == "" {
		out.ErrorCorrectionLevel = base.ErrorCorrectionLevel
	}
	if s.Color != nil {
		*out.Color = *s.Color
	}
	if base.Color != nil {
		if out.Color.Dark == "" {
			out.Color.Dark = base.Color.Dark
		}
		if out.Color.Light == "" {
			out.Color.Light = base.Color.Light
		}
	}
	return out
}

// Resolve merges s over defaults (and the built-in defaults beneath them),
// validates the result and returns it with the level normalised to one of
// L, M, Q or H.
func (s Settings) Resolve(defaults Settings) (Settings, error) {
	full := s.Merge(defaults.Merge(DefaultSettings()))
	opts, err := full.compile()
	if err != nil {
		return Settings{}, err
	}
	full.ErrorCorrectionLevel = opts.levelCode
	return full, nil
}

// Validate checks the fields that are set. Unset fields are always valid.
func (s Settings) Validate() error {
	_, err := s.Resolve(DefaultSettings())
	return err
}

type options struct {
	width     int
	margin    int
	dark      color.Color
	light     color.Color
	level     qrcode.RecoveryLevel
	levelCode string
}

// compile expects a fully merged Settings.
func (s Settings) compile() (options, error) {
	var o options

	o.width = *s.Width
	if o.width < 1 || o.width > MaxWidth {
		return o, fmt.Errorf("%w: width must be between 1 and %d, got %d", ErrInvalidSettings, MaxWidth, o.width)
	}
	o.margin = *s.Margin
	if o.margin < 0 || o.margin > MaxMargin {
		return o, fmt.Errorf("%w: margin must be between 0 and %d, got %d", ErrInvalidSettings, MaxMargin, o.margin)
	}

	var err error
	if o.dark, err = parseColor(s.Color.Dark); err != nil {
		return o, fmt.Errorf("%w: dark color: %v", ErrInvalidSettings, err)
	}
	if o.light, err = parseColor(s.Color.Light); err != nil {
		return o, fmt.Errorf("%w: light color: %v", ErrInvalidSettings, err)
	}

	switch strings.ToUpper(strings.TrimSpace(s.ErrorCorrectionLevel)) {
	case "L", "LOW":
		o.level, o.levelCode = qrcode.Low, "L"
	case "M", "MEDIUM":
		o.level, o.levelCode = qrcode.Medium, "M"
	case "Q", "QUARTILE":
		o.level, o.levelCode = qrcode.High, "Q"
	case "H", "HIGH":
		o.level, o.levelCode = qrcode.Highest, "H"
	default:
		return o, fmt.Errorf("%w: error correction level %q is not one of L, M, Q, H", ErrInvalidSettings, s.ErrorCorrectionLevel)
	}
	return o, nil
}

// parseColor accepts #rgb, #rrggbb and #rrggbbaa.
func parseColor(raw string) (color.Color, error) {
	raw = strings.TrimSpace(raw)
	if !hexColor.MatchString(raw) {
		return nil, fmt.Errorf("%q is not a hex color", raw)
	}
	hex := strings.TrimPrefix(raw, "#")
	if len(hex) == 8 {
		alpha, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return nil, err
		}
		return drawing.ColorFromHex(hex[:6]).WithAlpha(uint8(alpha)), nil
	}
	return drawing.ColorFromHex(hex), nil
}

func intPtr(v int) *int { return &v }
