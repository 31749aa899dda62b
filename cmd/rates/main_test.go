package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"MarketLens/internal/config"
	"MarketLens/internal/runner"
)

func TestExecute_RejectsPositionalArgs(t *testing.T) {
	called := false
	cmd := newRootCmd(func(context.Context, string) error { called = true; return nil })
	cmd.SetArgs([]string{"KRW=X"})

	var stderr bytes.Buffer
	execute(context.Background(), cmd, &stderr)
	assert.False(t, called)
	assert.Contains(t, stderr.String(), "rates: unknown command")
}

func TestExecute_NoDataIsSilent(t *testing.T) {
	cmd := newRootCmd(func(context.Context, string) error { return runner.ErrNoData })
	cmd.SetArgs([]string{})

	var stderr bytes.Buffer
	execute(context.Background(), cmd, &stderr)
	assert.Empty(t, stderr.String())
}

func TestExecute_ReportsOtherErrors(t *testing.T) {
	cmd := newRootCmd(func(context.Context, string) error { return errors.New("config validation: bad") })
	cmd.SetArgs([]string{})

	var stderr bytes.Buffer
	execute(context.Background(), cmd, &stderr)
	assert.Equal(t, "rates: config validation: bad\n", stderr.String())
}

func TestNewRootCmd_ConfigFlag(t *testing.T) {
	t.Setenv("MARKETLENS_CONFIG", "")
	var got string
	cmd := newRootCmd(func(_ context.Context, cfgPath string) error { got = cfgPath; return nil })

	cmd.SetArgs([]string{"--config", "custom.yaml"})
	execute(context.Background(), cmd, &bytes.Buffer{})
	assert.Equal(t, "custom.yaml", got)

	cmd = newRootCmd(func(_ context.Context, cfgPath string) error { got = cfgPath; return nil })
	cmd.SetArgs([]string{})
	execute(context.Background(), cmd, &bytes.Buffer{})
	assert.Equal(t, config.DefaultPath, got)
}
