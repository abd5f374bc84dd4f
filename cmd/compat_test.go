package cmd

import (
	"context"
	"os"
	"testing"
)

// chdir changes the working directory for the duration of the test,
// restoring it during cleanup (equivalent to testing.T.Chdir in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

// testContext returns a context canceled when the test finishes
// (equivalent to testing.T.Context in Go 1.24).
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
