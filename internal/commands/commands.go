// Package commands is a small subcommand registry over the standard flag package.
package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
)

// ErrUnknownCommand is returned by Execute for a name that was never registered.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a subcommand with its own flags and a Run function.
// Flags are defined on FlagSet; Run is called after Parse and can read flag state.
type Command struct {
	Name    string
	Summary string
	FlagSet *flag.FlagSet
	Run     func() error
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds     map[string]*Command
	fallback string
}

// NewRegistry returns an empty command registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds a subcommand. fs is that command's FlagSet; run is called after fs.Parse succeeds.
func (r *Registry) Register(name, summary string, fs *flag.FlagSet, run func() error) {
	r.cmds[name] = &Command{Name: name, Summary: summary, FlagSet: fs, Run: run}
}

// SetDefault names the command Execute runs when args is empty or starts with a flag.
func (r *Registry) SetDefault(name string) {
	r.fallback = name
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
// Returns an error for unknown command, parse error, or from Run().
func (r *Registry) Execute(args []string) error {
	if (len(args) == 0 || len(args[0]) > 0 && args[0][0] == '-') && r.fallback != "" {
		args = append([]string{r.fallback}, args...)
	}
	if len(args) == 0 {
		return fmt.Errorf("missing subcommand")
	}
	cmd, ok := r.cmds[args[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return err
	}
	return cmd.Run()
}

// Usage writes one line per command.
func (r *Registry) Usage(w io.Writer, program string) {
	fmt.Fprintf(w, "usage: %s <command> [flags]\n\ncommands:\n", program)
	for _, n := range r.Names() {
		fmt.Fprintf(w, "  %-10s %s\n", n, r.cmds[n].Summary)
	}
}
