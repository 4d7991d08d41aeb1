package util

import (
	"os/exec"
	"runtime"
)

// openCommand 各平台的系统默认打开方式
func openCommand(goos, target string) (string, []string) {
	switch goos {
	case "windows":
		// rundll32 在 Windows 7 上比 cmd /c start 稳定
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	case "darwin":
		return "open", []string{target}
	default:
		return "xdg-open", []string{target}
	}
}

// fallbackCommands 默认方式失败时依次尝试
func fallbackCommands(goos string) []string {
	switch goos {
	case "windows":
		return []string{"explorer"}
	case "linux":
		return []string{"gio", "sensible-browser"}
	}
	return nil
}

// Open 用系统默认程序打开文件或 URL（报告、下载链接）
func Open(target string) error {
	name, args := openCommand(runtime.GOOS, target)
	err := exec.Command(name, args...).Start()
	if err == nil {
		return nil
	}
	for _, alt := range fallbackCommands(runtime.GOOS) {
		altArgs := []string{target}
		if alt == "gio" {
			altArgs = []string{"open", target}
		}
		if exec.Command(alt, altArgs...).Start() == nil {
			return nil
		}
	}
	return err
}
