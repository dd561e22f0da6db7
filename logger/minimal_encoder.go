package logger

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette is one console theme.
type palette struct {
	fg        string
	time      string
	id        string
	number    string
	bracket   string
	component []string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

var themes = map[string]palette{
	// Gruvbox Dark: warm, muted
	"gruvbox": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;108m",
		id:        "\x1b[38;5;109m",
		number:    "\x1b[38;5;175m",
		bracket:   "\x1b[38;5;208m",
		component: []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
		warn:      "\x1b[38;5;214m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;88m",
	},
	// Everforest Dark: forest greens
	"everforest": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;107m",
		id:        "\x1b[38;5;109m",
		number:    "\x1b[38;5;108m",
		bracket:   "\x1b[38;5;208m",
		component: []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
		warn:      "\x1b[38;5;179m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;52m",
	},
}

// Current active theme (set from PYRUST_LOG_THEME or config)
var currentTheme = "everforest"

// SetTheme configures the color scheme for log output. Unknown names are ignored.
func SetTheme(theme string) {
	if _, ok := themes[theme]; ok {
		currentTheme = theme
	}
}

func colors() palette {
	return themes[currentTheme]
}

// colorComponent picks a stable color per logger name.
func colorComponent(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	choices := colors().component
	return choices[hash%len(choices)]
}

var bracketPattern = regexp.MustCompile(`\[[^\]]+\]`)

// colorizeMessage highlights bracketed markers like [cache] or [pkg.mod].
func colorizeMessage(msg string) string {
	c := colors()
	var b strings.Builder
	last := 0
	for _, m := range bracketPattern.FindAllStringIndex(msg, -1) {
		if m[0] > last {
			b.WriteString(c.fg + msg[last:m[0]] + colorReset)
		}
		b.WriteString(c.bracket + msg[m[0]:m[1]] + colorReset)
		last = m[1]
	}
	if last < len(msg) {
		b.WriteString(c.fg + msg[last:] + colorReset)
	}
	return b.String()
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  cache  stored translation  pkg::calc 3ms"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := buffer.NewPool().Get()

	final.AppendString(colors().time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only shown when it is not Info
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(colorizeMessage(ent.Message))

	if values := extractFieldValues(fields); values != "" {
		final.AppendString("  ")
		final.AppendString(values)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for non-info levels
func levelColorString(level zapcore.Level) string {
	c := colors()
	switch level {
	case zapcore.DebugLevel:
		return c.fg + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + c.warnBg + c.warn + "WARN" + colorReset
	default:
		return colorBold + c.errBg + c.err + level.CapitalString() + colorReset
	}
}

// abbreviateName shortens component names: cache.migrate -> c.migrate
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// getFieldValue renders a zap field's value without its key.
func getFieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.BoolType:
		return fmt.Sprintf("%t", field.Integer == 1)
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.Float64Type:
		return fmt.Sprintf("%g", math.Float64frombits(uint64(field.Integer)))
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
	}
	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

// extractFieldValues renders structured fields compactly. Module and file
// names are shown bare, durations get a unit, errors are colored, and every
// other field is kept as key=value so nothing is dropped.
// Input: {"module": "pkg::calc", "duration_ms": 3, "async": true}
// Output: "pkg::calc 3ms async=true"
func extractFieldValues(fields []zapcore.Field) string {
	c := colors()
	var values []string
	for _, field := range fields {
		val := getFieldValue(field)
		if val == "" {
			continue
		}
		switch field.Key {
		case FieldModule, FieldFile, FieldPath, FieldOutput:
			values = append(values, c.id+val+colorReset)
		case FieldDurationMS:
			values = append(values, c.number+val+colorReset+"ms")
		case FieldCount:
			values = append(values, c.number+val+colorReset+" modules")
		case FieldError:
			values = append(values, c.err+val+colorReset)
		default:
			values = append(values, field.Key+"="+val)
		}
	}
	return strings.Join(values, " ")
}
