package commands

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestRegistry_Execute(t *testing.T) {
	r := NewRegistry()
	fs := newFlagSet("simulate")
	frames := fs.Int("frames", 10, "")
	var ran bool
	r.Register("simulate", "run headless", fs, func() error {
		ran = true
		return nil
	})

	require.NoError(t, r.Execute([]string{"simulate", "-frames", "42"}))
	assert.True(t, ran)
	assert.Equal(t, 42, *frames)
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Register("fail", "", newFlagSet("fail"), func() error { return boom })

	assert.Error(t, r.Execute(nil))
	assert.ErrorIs(t, r.Execute([]string{"nope"}), ErrUnknownCommand)
	assert.ErrorIs(t, r.Execute([]string{"fail"}), boom)
	assert.Error(t, r.Execute([]string{"fail", "-undefined"}))
}

func TestRegistry_Default(t *testing.T) {
	r := NewRegistry()
	fs := newFlagSet("run")
	level := fs.String("loglevel", "INFO", "")
	calls := 0
	r.Register("run", "", fs, func() error {
		calls++
		return nil
	})
	r.SetDefault("run")

	require.NoError(t, r.Execute(nil))
	require.NoError(t, r.Execute([]string{"-loglevel", "DEBUG"}))
	assert.Equal(t, 2, calls)
	assert.Equal(t, "DEBUG", *level)
}

func TestRegistry_Usage(t *testing.T) {
	r := NewRegistry()
	r.Register("simulate", "run headless", newFlagSet("simulate"), func() error { return nil })
	r.Register("run", "open the viewport", newFlagSet("run"), func() error { return nil })
	assert.Equal(t, []string{"run", "simulate"}, r.Names())

	var buf bytes.Buffer
	r.Usage(&buf, "navigator")
	out := buf.String()
	assert.Contains(t, out, "usage: navigator")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("run ")), bytes.Index(buf.Bytes(), []byte("simulate")))
}
