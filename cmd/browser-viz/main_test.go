// File: cmd/browser-viz/main_test.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetMocks() {
	osWriteFile = os.WriteFile
	osExit = os.Exit
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 0, exitCode(context.Canceled))
	assert.Equal(t, 0, exitCode(fmt.Errorf("recording interrupted: %w", context.Canceled)))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 1, exitCode(context.DeadlineExceeded))
}

func TestHandlePanic(t *testing.T) {
	defer resetMocks()

	t.Run("No Panic", func(t *testing.T) {
		resetMocks()
		exited := false
		osExit = func(int) { exited = true }
		func() {
			defer handlePanic()
		}()
		assert.False(t, exited)
	})

	t.Run("Panic Logged", func(t *testing.T) {
		resetMocks()
		var written string
		var path string
		osWriteFile = func(name string, data []byte, perm os.FileMode) error {
			path = name
			written = string(data)
			return nil
		}
		code := -1
		osExit = func(c int) { code = c }

		func() {
			defer handlePanic()
			panic("frame buffer corrupted")
		}()

		assert.Equal(t, 1, code)
		assert.Equal(t, panicLogFile, path)
		require.NotEmpty(t, written)
		assert.Contains(t, written, "panic: frame buffer corrupted")
		assert.Contains(t, written, "goroutine")
	})

	t.Run("Log Write Failure", func(t *testing.T) {
		resetMocks()
		osWriteFile = func(string, []byte, os.FileMode) error {
			return errors.New("read-only filesystem")
		}
		code := -1
		osExit = func(c int) { code = c }

		func() {
			defer handlePanic()
			panic("boom")
		}()

		assert.Equal(t, 1, code)
	})
}
