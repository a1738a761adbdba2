package app

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/michaelliao/eth-smt/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	config.Version = "0.1.0-test"
	ctl := New()
	out := bytes.NewBuffer(nil)
	ctl.Writer = out
	require.NoError(t, ctl.Run([]string{"smt", "--version"}))
	require.Equal(t, "SMT\nVersion: "+config.Version+"\nGoVersion: "+runtime.Version()+"\n", out.String())
}

func TestCommands(t *testing.T) {
	ctl := New()
	for _, name := range []string{"put", "get", "root", "dump", "shell"} {
		require.NotNil(t, ctl.Command(name), name)
	}
}
