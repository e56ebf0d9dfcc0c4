// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/inrick/chip8-go/internal/options"
)

// ParseFlags parses the command line arguments, excluding the program name,
// into program options.
func ParseFlags(name string, args []string) (options.Program, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	opts := options.New()
	readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, name: name, msg: err.Error()}
	}
	args = flags.Args()
	if len(args) == 0 {
		return opts, &UsageError{flags: flags, name: name}
	}
	if err := validateArgs(flags, name, args); err != nil {
		return opts, err
	}
	opts.Input = args[0]

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	name  string
	msg   string
}

func (e *UsageError) Error() string {
	if e.msg == "" {
		return "missing ROM file"
	}
	return e.msg
}

// ShowUsage prints the usage information to w.
func (e *UsageError) ShowUsage(w io.Writer) {
	if e.msg != "" {
		fmt.Fprintf(w, "%s\n\n", e.msg)
	}
	fmt.Fprintf(w, "usage: %s [options] <rom file>\n\n", e.name)
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Keypad    =>  Keyboard")
	fmt.Fprintln(w, "|1|2|3|C|     |1|2|3|4|")
	fmt.Fprintln(w, "|4|5|6|D|     |Q|W|E|R|")
	fmt.Fprintln(w, "|7|8|9|E|     |A|S|D|F|")
	fmt.Fprintln(w, "|A|0|B|F|     |Z|X|C|V|")
}

// validateArgs checks that the ROM file is the last argument.
func validateArgs(flags *flag.FlagSet, name string, args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				flags: flags,
				name:  name,
				msg:   fmt.Sprintf("argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	if len(args) > 1 {
		return &UsageError{flags: flags, name: name, msg: "only one ROM file can be run"}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	if !slices.Contains(options.Frontends, opts.Frontend) {
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
			opts.Frontend, strings.Join(options.Frontends, ", "))
	}
	if opts.CyclesPerFrame < 1 {
		return fmt.Errorf("cycles per frame must be positive, got %d", opts.CyclesPerFrame)
	}
	if opts.Scale < 1 {
		return fmt.Errorf("scale must be positive, got %d", opts.Scale)
	}
	if opts.Trace {
		opts.Debug = true
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Frontend, "f", opts.Frontend,
		fmt.Sprintf("frontend to use (%s)", strings.Join(options.Frontends, "/")))
	flags.IntVar(&opts.CyclesPerFrame, "c", opts.CyclesPerFrame, "instructions executed per 60 Hz frame")
	flags.IntVar(&opts.Scale, "scale", opts.Scale, "window pixels per Chip-8 pixel")
	flags.Int64Var(&opts.Seed, "seed", 0, "random seed for the RND instruction, 0 uses the current time")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
