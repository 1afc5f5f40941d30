package subover

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// testScript has two overlapping dialogue events; the later end timestamp
// is 1200 ms.
const testScript = `[Script Info]
Title: test

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:00.50,0:00:01.20,Default,,0,0,0,,Hello
Dialogue: 0,0:00:00.00,0:00:00.90,Default,,0,0,0,,World
`

// writeScript writes a subtitle file into a temp dir and returns its path.
func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ass")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeEngine returns scripted frames keyed by render time and records
// every RenderAt call. Unlisted times render as Unchanged.
type fakeEngine struct {
	loadErr error
	frames  map[int64]Frame
	calls   []int64
}

func (e *fakeEngine) LoadTrack(data []byte) (EngineTrack, error) {
	if e.loadErr != nil {
		return nil, e.loadErr
	}
	return struct{}{}, nil
}

func (e *fakeEngine) RenderAt(track EngineTrack, timeMS int64) Frame {
	e.calls = append(e.calls, timeMS)
	if f, ok := e.frames[timeMS]; ok {
		return f
	}
	return Unchanged()
}

func newTestCompositor(t *testing.T, eng Engine) *Compositor {
	t.Helper()
	c, err := New(WithFrameSize(16, 16), WithEngine(eng))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_InvalidFrameSize(t *testing.T) {
	if _, err := New(WithFrameSize(0, 720), WithEngine(&fakeEngine{})); err == nil {
		t.Error("New accepted zero width")
	}
	if _, err := New(WithFrameSize(1280, -1), WithEngine(&fakeEngine{})); err == nil {
		t.Error("New accepted negative height")
	}
}

// TestNew_NoEngineRegistered checks the failure mode when no engine is
// injected and no factory has been registered. This package does not
// import the engine package, so the factory slot is empty here.
func TestNew_NoEngineRegistered(t *testing.T) {
	_, err := New()
	if !errors.Is(err, ErrEngineInit) {
		t.Fatalf("New() error = %v, want ErrEngineInit", err)
	}
}

// TestTick_NoTrackLoaded verifies that ticks before any load neither
// advance the cursor nor reach the engine.
func TestTick_NoTrackLoaded(t *testing.T) {
	eng := &fakeEngine{}
	c := newTestCompositor(t, eng)

	c.Tick(100)
	c.Tick(100)

	if got := c.CurrentTime(); got != 0 {
		t.Errorf("CurrentTime() = %d, want 0", got)
	}
	if len(eng.calls) != 0 {
		t.Errorf("engine called %d times before load, want 0", len(eng.calls))
	}
	if c.IsLoaded() {
		t.Error("IsLoaded() = true before load")
	}
}

// TestLoadTrack_ResetsCursor verifies the cursor returns to 0 when a new
// track is installed mid-playback.
func TestLoadTrack_ResetsCursor(t *testing.T) {
	path := writeScript(t, testScript)
	c := newTestCompositor(t, &fakeEngine{})

	if err := c.LoadTrack(path); err != nil {
		t.Fatalf("LoadTrack: %v", err)
	}
	c.Tick(300)
	c.Tick(300)
	if got := c.CurrentTime(); got != 600 {
		t.Fatalf("CurrentTime() = %d, want 600", got)
	}

	if err := c.LoadTrack(path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := c.CurrentTime(); got != 0 {
		t.Errorf("CurrentTime() after reload = %d, want 0", got)
	}
}

// TestLoadTrack_FailureKeepsPriorState verifies a failed load leaves the
// previous track and the cursor untouched.
func TestLoadTrack_FailureKeepsPriorState(t *testing.T) {
	path := writeScript(t, testScript)
	c := newTestCompositor(t, &fakeEngine{})
	if err := c.LoadTrack(path); err != nil {
		t.Fatalf("LoadTrack: %v", err)
	}
	c.Tick(400)

	err := c.LoadTrack(filepath.Join(t.TempDir(), "missing.ass"))
	if !errors.Is(err, ErrLoadIO) {
		t.Fatalf("LoadTrack(missing) error = %v, want ErrLoadIO", err)
	}
	if !c.IsLoaded() {
		t.Error("prior track discarded after failed load")
	}
	if got := c.CurrentTime(); got != 400 {
		t.Errorf("CurrentTime() = %d, want 400 (cursor must survive failed load)", got)
	}
	if got := c.Duration(); got != 1200 {
		t.Errorf("Duration() = %d, want 1200", got)
	}

	err = c.LoadTrack(writeScript(t, "not a subtitle file"))
	if !errors.Is(err, ErrLoadParse) {
		t.Fatalf("LoadTrack(garbage) error = %v, want ErrLoadParse", err)
	}
	if got := c.CurrentTime(); got != 400 {
		t.Errorf("CurrentTime() = %d after parse failure, want 400", got)
	}
}

// TestTick_NegativeDelta verifies backward seeks move the cursor back.
func TestTick_NegativeDelta(t *testing.T) {
	path := writeScript(t, testScript)
	c := newTestCompositor(t, &fakeEngine{})
	if err := c.LoadTrack(path); err != nil {
		t.Fatalf("LoadTrack: %v", err)
	}

	c.Tick(500)
	c.Tick(-200)
	if got := c.CurrentTime(); got != 300 {
		t.Errorf("CurrentTime() = %d, want 300", got)
	}
}

// TestRender_UnchangedShortCircuit verifies an Unchanged result leaves
// the surface bit-identical and the dirty set intact.
func TestRender_UnchangedShortCircuit(t *testing.T) {
	path := writeScript(t, testScript)
	eng := &fakeEngine{frames: map[int64]Frame{
		100: Changed([]Layer{{
			X: 2, Y: 2, Width: 3, Height: 3,
			Color:    0xFF000000,
			Coverage: fullCoverage(3, 3, 255),
		}}),
		// 200 is absent: Unchanged.
		300: Changed(nil),
	}}
	c := newTestCompositor(t, eng)
	if err := c.LoadTrack(path); err != nil {
		t.Fatalf("LoadTrack: %v", err)
	}

	c.Tick(100) // paints the red layer
	painted := c.Surface().Snapshot()

	c.Tick(100) // Unchanged: no repaint
	after := c.Surface().Snapshot()
	for i := range painted.Pix {
		if painted.Pix[i] != after.Pix[i] {
			t.Fatalf("unchanged frame modified surface byte %d", i)
		}
	}

	c.Tick(100) // Changed(nil): prior region cleared exactly
	cleared := c.Surface().Snapshot()
	for i, b := range cleared.Pix {
		if b != 0 {
			t.Fatalf("byte %d = %d after clearing frame, want 0", i, b)
		}
	}
}

// TestRender_DirtyRegionExactness verifies only the previous frame's
// regions are cleared when new content lands elsewhere.
func TestRender_DirtyRegionExactness(t *testing.T) {
	path := writeScript(t, testScript)
	eng := &fakeEngine{frames: map[int64]Frame{
		100: Changed([]Layer{{
			X: 0, Y: 0, Width: 2, Height: 2,
			Color:    0xFF000000,
			Coverage: fullCoverage(2, 2, 255),
		}}),
		200: Changed([]Layer{{
			X: 10, Y: 10, Width: 2, Height: 2,
			Color:    0x00FF0000,
			Coverage: fullCoverage(2, 2, 255),
		}}),
	}}
	c := newTestCompositor(t, eng)
	if err := c.LoadTrack(path); err != nil {
		t.Fatalf("LoadTrack: %v", err)
	}

	c.Tick(100)
	c.Tick(100)

	img := c.Surface().Snapshot()
	// Old region is cleared.
	i := img.PixOffset(0, 0)
	if img.Pix[i] != 0 || img.Pix[i+3] != 0 {
		t.Errorf("old region pixel = (%d,_,_,%d), want cleared", img.Pix[i], img.Pix[i+3])
	}
	// New region holds the green layer.
	i = img.PixOffset(10, 10)
	if img.Pix[i+1] != 255 {
		t.Errorf("new region green channel = %d, want 255", img.Pix[i+1])
	}
}

// TestHasEnded verifies the end-of-track boundary, including exact
// equality with the duration.
func TestHasEnded(t *testing.T) {
	path := writeScript(t, testScript)
	c := newTestCompositor(t, &fakeEngine{})
	if err := c.LoadTrack(path); err != nil {
		t.Fatalf("LoadTrack: %v", err)
	}
	if got := c.Duration(); got != 1200 {
		t.Fatalf("Duration() = %d, want 1200", got)
	}

	c.Tick(1199)
	if c.HasEnded() {
		t.Error("HasEnded() = true at 1199/1200")
	}
	c.Tick(1)
	if !c.HasEnded() {
		t.Error("HasEnded() = false at exactly 1200/1200")
	}
}

// TestHasEnded_NoTrack verifies the degenerate 0 >= 0 case before any
// track is loaded.
func TestHasEnded_NoTrack(t *testing.T) {
	c := newTestCompositor(t, &fakeEngine{})
	if !c.HasEnded() {
		t.Error("HasEnded() = false with no track, want true (0 >= 0)")
	}
}

// TestLoadTrack_ConcurrentWithTick exercises loads racing a tick loop.
// Run with -race; correctness here is the absence of data races and a
// consistent final state.
func TestLoadTrack_ConcurrentWithTick(t *testing.T) {
	path := writeScript(t, testScript)
	c := newTestCompositor(t, &fakeEngine{})
	if err := c.LoadTrack(path); err != nil {
		t.Fatalf("LoadTrack: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			c.Tick(10)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			if err := c.LoadTrack(path); err != nil {
				t.Errorf("concurrent LoadTrack: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	if !c.IsLoaded() {
		t.Error("IsLoaded() = false after concurrent load/tick")
	}
	if got := c.Duration(); got != 1200 {
		t.Errorf("Duration() = %d, want 1200", got)
	}
}
