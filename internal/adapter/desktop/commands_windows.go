//go:build windows
// +build windows

package desktop

import (
	"fmt"
	"strings"

	"github.com/vertextoedge/linkguard/internal/port"
)

const (
	supportsClick = false
	defaultAction = ""
)

const defaultCueSound = `C:\Windows\Media\Windows Notify System Generic.wav`

func openCommand(rawURL string) command {
	return command{name: "rundll32", args: []string{"url.dll,FileProtocolHandler", rawURL}}
}

func revealCommands(filePath string) []command {
	return []command{{name: "explorer", args: []string{"/select," + filePath}}}
}

// notifyCommand shows a tray balloon; the icon lingers until the script exits
func notifyCommand(n port.Notification, _ bool) command {
	script := fmt.Sprintf(`Add-Type -AssemblyName System.Windows.Forms
$n = New-Object System.Windows.Forms.NotifyIcon
$n.Icon = [System.Drawing.SystemIcons]::Information
$n.BalloonTipTitle = %s
$n.BalloonTipText = %s
$n.Visible = $true
$n.ShowBalloonTip(5000)
Start-Sleep -Seconds 6
$n.Dispose()`, psString(n.Title), psString(n.Body))
	return command{name: "powershell", args: []string{"-NoProfile", "-NonInteractive", "-Command", script}}
}

func cueCommands(sound string) []command {
	if sound == "" {
		sound = defaultCueSound
	}
	script := fmt.Sprintf("(New-Object Media.SoundPlayer %s).PlaySync()", psString(sound))
	return []command{{name: "powershell", args: []string{"-NoProfile", "-NonInteractive", "-Command", script}}}
}

// psString quotes s as a single-quoted PowerShell literal
func psString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
