package main

import (
	"os/exec"
	"runtime"
)

// openBrowser 用系统默认浏览器打开 url，失败时再尝试常见浏览器
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		// rundll32 在 Windows 7 上也可用
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	err := cmd.Start()
	if err == nil {
		return nil
	}

	var fallbacks []string
	switch runtime.GOOS {
	case "windows":
		fallbacks = []string{"explorer"}
	case "linux":
		fallbacks = []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"}
	}
	for _, name := range fallbacks {
		if exec.Command(name, url).Start() == nil {
			return nil
		}
	}
	return err
}
