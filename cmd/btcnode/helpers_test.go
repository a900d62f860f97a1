package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func parseConnFlags(t *testing.T, args ...string) (*cobra.Command, *connFlags) {
	t.Helper()
	flags := &connFlags{}
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v) error = %v", args, err)
	}
	return cmd, flags
}

func TestOverridesOnlyForChangedFlags(t *testing.T) {
	cmd, flags := parseConnFlags(t)
	o := flags.overrides(cmd)
	if o.Host != nil || o.Port != nil || o.User != nil || o.Password != nil || o.Timeout != nil {
		t.Errorf("overrides() with no flags = %+v, want all nil", o)
	}
}

func TestOverridesFromFlags(t *testing.T) {
	cmd, flags := parseConnFlags(t,
		"--host", "node.local", "--port", "18332", "--user", "alice", "--password", "s3cret", "--timeout", "45")
	o := flags.overrides(cmd)

	if o.Host == nil || *o.Host != "node.local" {
		t.Errorf("Host = %v, want node.local", o.Host)
	}
	if o.Port == nil || *o.Port != 18332 {
		t.Errorf("Port = %v, want 18332", o.Port)
	}
	if o.User == nil || *o.User != "alice" {
		t.Errorf("User = %v, want alice", o.User)
	}
	if o.Password == nil || *o.Password != "s3cret" {
		t.Errorf("Password = %v, want s3cret", o.Password)
	}
	if o.Timeout == nil || *o.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", o.Timeout)
	}
}

func TestOverridesKeepExplicitZeroValues(t *testing.T) {
	cmd, flags := parseConnFlags(t, "--user", "")
	o := flags.overrides(cmd)
	if o.User == nil {
		t.Fatal("User = nil, want pointer to empty string")
	}
	if o.Port != nil {
		t.Errorf("Port = %v, want nil", *o.Port)
	}
}

func TestRootRegistersCommands(t *testing.T) {
	root := rootCmd()
	want := []string{"status", "info", "network", "mempool", "peers", "fee", "block", "latest",
		"tx", "balance", "batch-balance", "config", "ping", "history"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("command %q not registered", name)
		}
	}
}
