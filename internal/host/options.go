// Package host contains everything around the interpreter that is not a
// window: command line options, logging, ROM loading, the frame runner and
// the keyboard layout.
package host

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

// Frontends selectable with -frontend.
const (
	FrontendPixel  = "pixel"
	FrontendEbiten = "ebiten"
	FrontendTerm   = "term"
)

var frontends = []string{FrontendPixel, FrontendEbiten, FrontendTerm}

// Options holds the parsed command line.
type Options struct {
	ROM      string
	Frontend string

	// Scale is the window size multiplier of the 64x32 display.
	Scale int
	// CyclesPerFrame is the number of instructions run per 60Hz frame.
	CyclesPerFrame int

	Foreground color.RGBA
	Background color.RGBA

	Debug bool
	Quiet bool

	// Version requests printing the version; no ROM is needed then.
	Version bool
}

// UsageError is returned by ParseFlags when the command line is not usable.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage line and all flag defaults.
func (e *UsageError) ShowUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: chip8go [options] <ROM file>\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// ParseFlags parses the arguments following the program name.
func ParseFlags(args []string) (Options, error) {
	flags := flag.NewFlagSet("chip8go", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts Options
	var fg, bg string
	flags.StringVar(&opts.Frontend, "frontend", FrontendPixel, "display frontend ("+strings.Join(frontends, "/")+")")
	flags.IntVar(&opts.Scale, "scale", 10, "window pixels per CHIP-8 pixel")
	flags.IntVar(&opts.CyclesPerFrame, "cycles", 10, "instructions executed per 60Hz frame")
	flags.StringVar(&fg, "fg", "ffffff", "color of lit pixels as RRGGBB or color name")
	flags.StringVar(&bg, "bg", "000000", "color of unlit pixels as RRGGBB or color name")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")
	flags.BoolVar(&opts.Version, "version", false, "print the version and exit")

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	if opts.Version {
		return opts, nil
	}

	rest := flags.Args()
	switch {
	case len(rest) == 0:
		return opts, &UsageError{flags: flags, msg: "no ROM file given"}
	case len(rest) > 1:
		return opts, &UsageError{flags: flags, msg: fmt.Sprintf("unexpected argument %q after ROM file", rest[1])}
	}
	opts.ROM = rest[0]

	if err := normalizeOptions(&opts, fg, bg); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	return opts, nil
}

func normalizeOptions(opts *Options, fg, bg string) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	if !validFrontend(opts.Frontend) {
		return errors.Errorf("unsupported frontend: %s. Valid options: %s",
			opts.Frontend, strings.Join(frontends, ", "))
	}

	if opts.Scale < 1 {
		return errors.Errorf("invalid scale %d", opts.Scale)
	}
	if opts.CyclesPerFrame < 1 {
		return errors.Errorf("invalid cycles per frame %d", opts.CyclesPerFrame)
	}
	if opts.Debug && opts.Quiet {
		return errors.New("-debug and -q can not be combined")
	}

	var err error
	if opts.Foreground, err = ParseColor(fg); err != nil {
		return errors.Wrap(err, "foreground")
	}
	if opts.Background, err = ParseColor(bg); err != nil {
		return errors.Wrap(err, "background")
	}
	return nil
}

func validFrontend(name string) bool {
	for _, valid := range frontends {
		if name == valid {
			return true
		}
	}
	return false
}

// ParseColor parses an RRGGBB hex color, with or without a leading '#', or
// an SVG color name such as "lime".
func ParseColor(s string) (color.RGBA, error) {
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}

	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, errors.Errorf("invalid color %q", s)
	}

	value, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(err, "invalid color %q", s)
	}

	return color.RGBA{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
		A: 0xFF,
	}, nil
}
