package present

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/scope/internal/capture"
	"github.com/ironsheep/scope/internal/deps"
	"github.com/ironsheep/scope/internal/desktop"
	"github.com/ironsheep/scope/internal/logging"
	"github.com/ironsheep/scope/internal/ocr"
	"github.com/ironsheep/scope/internal/pipeline"
	"github.com/ironsheep/scope/internal/region"
)

type notification struct {
	title, message string
}

type fakeNotifier struct {
	sent []notification
}

func (f *fakeNotifier) Notify(_ context.Context, title, message string) {
	f.sent = append(f.sent, notification{title, message})
}

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

type fixture struct {
	out       bytes.Buffer
	notifier  fakeNotifier
	clipboard fakeClipboard
	presenter *Presenter
}

func newFixture() *fixture {
	f := &fixture{}
	f.presenter = &Presenter{
		Out:       &f.out,
		Notifier:  &f.notifier,
		Clipboard: &f.clipboard,
		Copy:      true,
		Log:       logging.NewNop(),
	}
	return f
}

func delivered(text string) pipeline.Result {
	return pipeline.Result{
		State:       pipeline.Delivered,
		Text:        text,
		Recognition: pipeline.TextFound,
		Languages:   []string{"eng"},
	}
}

func aborted(reason pipeline.Reason, err error) pipeline.Result {
	return pipeline.Result{
		State:  pipeline.Aborted,
		Reason: reason,
		Err:    &pipeline.Failure{Reason: reason, Err: err},
	}
}

func TestPresent_Delivered(t *testing.T) {
	f := newFixture()

	code := f.presenter.Present(context.Background(), delivered("Hello World"))

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "Hello World\n", f.out.String())
	assert.Equal(t, "Hello World", f.clipboard.text)
	assert.Empty(t, f.notifier.sent)
}

func TestPresent_NoCopy(t *testing.T) {
	f := newFixture()
	f.presenter.Copy = false

	f.presenter.Present(context.Background(), delivered("Hello"))

	assert.Empty(t, f.clipboard.text)
	assert.Equal(t, "Hello\n", f.out.String())
}

func TestPresent_PlaceholderIsNotCopied(t *testing.T) {
	f := newFixture()
	res := pipeline.Result{
		State:       pipeline.Delivered,
		Reason:      pipeline.OcrDegraded,
		Text:        pipeline.DefaultPlaceholder,
		Placeholder: true,
		Recognition: pipeline.TextFailed,
		Err:         &pipeline.Failure{Reason: pipeline.OcrDegraded, Err: ocr.ErrOCRFailed},
	}

	code := f.presenter.Present(context.Background(), res)

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "No text found.\n", f.out.String())
	assert.Empty(t, f.clipboard.text)
	assert.Empty(t, f.notifier.sent)
}

func TestPresent_ClipboardFailure(t *testing.T) {
	f := newFixture()
	f.clipboard.err = errors.New("exec: \"xclip\": executable file not found in $PATH")

	code := f.presenter.Present(context.Background(), delivered("Hello"))

	assert.Equal(t, ExitOK, code, "text is still delivered")
	assert.Equal(t, "Hello\n", f.out.String())
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, desktop.TitleCopyFailed, f.notifier.sent[0].title)
}

func TestPresent_DependencyMissing(t *testing.T) {
	f := newFixture()
	missing := []deps.Requirement{{Capability: deps.Recognize, Binary: "tesseract"}}
	res := aborted(pipeline.DependencyMissing, errors.New(deps.Describe(missing)))
	res.Missing = missing

	code := f.presenter.Present(context.Background(), res)

	assert.Equal(t, ExitFailed, code)
	assert.Empty(t, f.out.String())
	assert.Equal(t, []notification{{
		title:   "MISSING TOOLS",
		message: "Missing tools: tesseract (recognize)\nInstall them.",
	}}, f.notifier.sent)
}

func TestPresent_SelectionAbortedNotifies(t *testing.T) {
	f := newFixture()

	code := f.presenter.Present(context.Background(), aborted(pipeline.SelectionAborted, region.ErrAborted))

	assert.Equal(t, ExitOK, code)
	assert.Empty(t, f.out.String())
	assert.Empty(t, f.clipboard.text)
	assert.Equal(t, []notification{{
		title:   "UNABLE TO TAKE SCREENSHOT",
		message: "No region was selected.",
	}}, f.notifier.sent)
}

func TestPresent_EveryAbortLeavesASignal(t *testing.T) {
	reasons := []pipeline.Reason{
		pipeline.DependencyMissing,
		pipeline.SelectionAborted,
		pipeline.ArtifactBusy,
		pipeline.CaptureFailed,
	}
	for _, reason := range reasons {
		t.Run(string(reason), func(t *testing.T) {
			f := newFixture()

			f.presenter.Present(context.Background(), aborted(reason, errors.New("cause")))

			assert.Len(t, f.notifier.sent, 1)
		})
	}
}

func TestPresent_CaptureFailed(t *testing.T) {
	for _, reason := range []pipeline.Reason{pipeline.CaptureFailed, pipeline.ArtifactBusy} {
		t.Run(string(reason), func(t *testing.T) {
			f := newFixture()
			cause := fmt.Errorf("%w: maim exited with status 1", capture.ErrCaptureFailed)

			code := f.presenter.Present(context.Background(), aborted(reason, cause))

			assert.Equal(t, ExitFailed, code)
			require.Len(t, f.notifier.sent, 1)
			assert.Equal(t, "UNABLE TO TAKE SCREENSHOT", f.notifier.sent[0].title)
			assert.Equal(t, cause.Error(), f.notifier.sent[0].message)
		})
	}
}

func TestPresent_JSON(t *testing.T) {
	t.Run("Delivered", func(t *testing.T) {
		f := newFixture()
		f.presenter.JSON = true
		res := delivered("Hello")
		res.Region = &region.Region{X: 1, Y: 2, Width: 3, Height: 4}

		f.presenter.Present(context.Background(), res)

		var got map[string]any
		require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
		assert.Equal(t, "delivered", got["state"])
		assert.Equal(t, "Hello", got["text"])
		assert.Equal(t, true, got["copied"])
		assert.NotContains(t, got, "error")
	})

	t.Run("Aborted", func(t *testing.T) {
		f := newFixture()
		f.presenter.JSON = true

		f.presenter.Present(context.Background(), aborted(pipeline.SelectionAborted, region.ErrAborted))

		var got map[string]any
		require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
		assert.Equal(t, "aborted", got["state"])
		assert.Equal(t, "SELECTION_ABORTED", got["reason"])
		assert.Contains(t, got["error"], "region selection aborted")
		assert.Equal(t, false, got["copied"])
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		res  pipeline.Result
		want int
	}{
		{delivered("x"), ExitOK},
		{pipeline.Result{State: pipeline.Delivered, Reason: pipeline.OcrDegraded}, ExitOK},
		{aborted(pipeline.SelectionAborted, nil), ExitOK},
		{aborted(pipeline.DependencyMissing, nil), ExitFailed},
		{aborted(pipeline.CaptureFailed, nil), ExitFailed},
		{aborted(pipeline.ArtifactBusy, nil), ExitFailed},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.res.State, tt.res.Reason), func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.res))
		})
	}
}
