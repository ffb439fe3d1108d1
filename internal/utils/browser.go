package utils

import (
	"fmt"
	"os/exec"
	"runtime"
)

// BrowserCommand returns the command that opens url in the user's default
// browser on the current platform
func BrowserCommand(url string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	case "darwin":
		return exec.Command("open", url), nil
	default:
		return nil, fmt.Errorf("don't know how to open a browser on %s, open %s manually", runtime.GOOS, url)
	}
}

// OpenBrowser opens the specified URL in the user's default browser without
// waiting for it to exit
func OpenBrowser(url string) error {
	if url == "" {
		return fmt.Errorf("no url to open")
	}

	cmd, err := BrowserCommand(url)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser, open %s manually: %v", url, err)
	}
	go cmd.Wait()
	return nil
}
