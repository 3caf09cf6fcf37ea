package progress

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type Config struct {
	Enabled bool
	Writer  io.Writer
}

// Manager owns the mpb container. A disabled Manager hands out no-op bars.
type Manager struct {
	container *mpb.Progress
	enabled   bool
	mu        sync.Mutex
}

// Bar is a progress bar with a changeable step label
type Bar struct {
	bar     *mpb.Bar
	step    *atomic.Value
	total   int64
	enabled bool
}

func NewManager(config Config) *Manager {
	if !config.Enabled {
		return &Manager{enabled: false}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	container := mpb.New(
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120*time.Millisecond),
	)

	return &Manager{
		container: container,
		enabled:   true,
	}
}

// CreateBar adds a bar of total steps labelled description
func (pm *Manager) CreateBar(total int, description string) *Bar {
	if !pm.enabled || pm.container == nil {
		return &Bar{enabled: false}
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()

	step := &atomic.Value{}
	step.Store("")

	bar := pm.container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("(%d/%d)", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.NewPercentage("%.1f", decor.WCSyncSpace),
			decor.OnComplete(
				decor.Any(func(decor.Statistics) string {
					return step.Load().(string)
				}, decor.WCSyncSpace), " ✓ ",
			),
			decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncSpace),
		),
	)

	return &Bar{
		bar:     bar,
		step:    step,
		total:   int64(total),
		enabled: true,
	}
}

// SetStep labels the step now running and moves the bar to index
func (pb *Bar) SetStep(index int, name string) {
	if pb.enabled && pb.bar != nil {
		pb.step.Store(name)
		pb.bar.SetCurrent(int64(index))
	}
}

func (pb *Bar) Increment() {
	if pb.enabled && pb.bar != nil {
		pb.bar.Increment()
	}
}

// Complete fills the bar. The bar was created with a total, so reaching it
// is what completes the bar; SetTotal is ignored in that mode.
func (pb *Bar) Complete() {
	if pb.enabled && pb.bar != nil {
		pb.bar.SetCurrent(pb.total)
	}
}

// Abort stops the bar where it is, leaving it on screen
func (pb *Bar) Abort() {
	if pb.enabled && pb.bar != nil {
		pb.bar.Abort(false)
	}
}

func (pm *Manager) Wait() {
	if pm.enabled && pm.container != nil {
		pm.container.Wait()
	}
}

func (pm *Manager) Shutdown() {
	if pm.enabled && pm.container != nil {
		pm.container.Shutdown()
	}
}

func IsTTY(writer io.Writer) bool {
	if writer == nil {
		return false
	}

	if file, ok := writer.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// ShouldShowProgress is true when forced or when stderr is a terminal
func ShouldShowProgress(forced bool) bool {
	if forced {
		return true
	}

	return IsTTY(os.Stderr)
}
