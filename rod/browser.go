package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages rendered before the browser is
// restarted. Chrome's memory baseline grows with every page and never
// returns to its initial level.
const DefaultMaxPages = 75

// browser owns a headless Chrome process and restarts it every maxPages
// pages. It is safe for concurrent use.
type browser struct {
	mu       sync.Mutex
	current  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	maxPages int
}

func newBrowser(maxPages int) (*browser, error) {
	b := &browser{maxPages: maxPages}
	current, l, err := launch()
	if err != nil {
		return nil, err
	}
	b.current, b.launcher = current, l
	return b, nil
}

// acquire returns the browser to open the next page in and counts the
// page toward the restart threshold.
func (b *browser) acquire() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return nil, fmt.Errorf("browser is closed")
	}
	if b.maxPages > 0 && b.pages >= b.maxPages {
		b.restart()
	}
	b.pages++
	return b.current, nil
}

// restart swaps in a fresh browser. The old one stays when launching fails.
// Must be called with mu held.
func (b *browser) restart() {
	current, l, err := launch()
	if err != nil {
		return
	}
	_ = b.current.Close()
	b.launcher.Kill()
	b.current, b.launcher = current, l
	b.pages = 0
}

func (b *browser) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return nil
	}
	err := b.current.Close()
	b.launcher.Kill()
	b.current, b.launcher = nil, nil
	return err
}

func (b *browser) pid() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}

func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return b, l, nil
}
