package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/scope/internal/artifact"
	"github.com/ironsheep/scope/internal/process"
	"github.com/ironsheep/scope/internal/region"
)

// writesFile simulates the capture tool writing its last argument.
func writesFile(cmd process.Command) {
	_ = os.WriteFile(cmd.Args[len(cmd.Args)-1], []byte("\x89PNG"), 0o600)
}

func newArtifact(t *testing.T) *artifact.Artifact {
	t.Helper()
	store := artifact.NewStore(filepath.Join(t.TempDir(), "snap.png"))
	a, err := store.Create()
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Release() })
	return a
}

func TestCapturer_Capture(t *testing.T) {
	ctx := context.Background()
	r := region.Region{X: 10, Y: 20, Width: 300, Height: 150}

	t.Run("Passes Exact Rectangle", func(t *testing.T) {
		a := newArtifact(t)
		runner := process.NewScriptedRunner().On("maim", process.Reply{Hook: writesFile})

		require.NoError(t, New(runner, "maim").Capture(ctx, r, a))

		calls := runner.CallsTo("maim")
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"-g", "300x150+10+20", a.Path()}, calls[0].Args)
		assert.True(t, a.Exists())
	})

	t.Run("Non Zero Exit", func(t *testing.T) {
		a := newArtifact(t)
		runner := process.NewScriptedRunner().On("maim", process.Reply{
			Result: process.Result{ExitCode: 1, Stderr: []byte("Failed to open display")},
		})

		err := New(runner, "maim").Capture(ctx, r, a)
		assert.ErrorIs(t, err, ErrCaptureFailed)
		assert.ErrorContains(t, err, "Failed to open display")
	})

	t.Run("Execution Error", func(t *testing.T) {
		a := newArtifact(t)
		runner := process.NewScriptedRunner().On("maim", process.Reply{Err: errors.New("boom")})
		assert.ErrorIs(t, New(runner, "maim").Capture(ctx, r, a), ErrCaptureFailed)
	})

	t.Run("Exit Zero Without File", func(t *testing.T) {
		a := newArtifact(t)
		runner := process.NewScriptedRunner().Exit("maim", 0)
		assert.ErrorIs(t, New(runner, "maim").Capture(ctx, r, a), ErrCaptureFailed)
	})

	t.Run("Invalid Region Never Invokes Tool", func(t *testing.T) {
		a := newArtifact(t)
		runner := process.NewScriptedRunner().On("maim", process.Reply{Hook: writesFile})
		err := New(runner, "maim").Capture(ctx, region.Region{X: 1, Y: 1}, a)
		assert.ErrorIs(t, err, ErrCaptureFailed)
		assert.Empty(t, runner.Calls())
	})
}
