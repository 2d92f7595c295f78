package cmd

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestVersionCmd(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "barbershop-booking dev") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"serve", "migrate", "version"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Fatalf("missing subcommand %s: %v", name, err)
		}
	}
	serve, _, _ := root.Find([]string{"serve"})
	if serve.Flags().Lookup("migrate") == nil {
		t.Fatalf("serve must expose --migrate")
	}
}

func TestAPIServer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- APIServer(ctx, http.NotFoundHandler(), "0", time.Second, zaptest.NewLogger(t))
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("server did not stop")
	}
}
