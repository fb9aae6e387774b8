package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"rozadaar/internal/ports"
)

// Opener implements ports.LinkOpener with the platform's URL handler
type Opener struct {
	goos string
}

// Ensure Opener implements ports.LinkOpener
var _ ports.LinkOpener = (*Opener)(nil)

// NewOpener creates an opener for the running platform
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS}
}

// Open launches the default browser without waiting for it to exit
func (o *Opener) Open(rawURL string) error {
	cmd, err := o.Command(rawURL)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", rawURL, err)
	}
	go cmd.Wait()
	return nil
}

// Command builds the platform command opening rawURL. Only absolute http
// and https links are accepted; anything else could run a local handler.
func (o *Opener) Command(rawURL string) (*exec.Cmd, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid link %q: %w", rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("refusing to open non-web link %q", rawURL)
	}
	link := u.String()

	switch o.goos {
	case "darwin":
		return exec.Command("open", link), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", link), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", link), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}
