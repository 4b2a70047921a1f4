package options

import (
	"runtime"
	"strings"
)

func GetDefaultOpenCommand() []string {
	if runtime.GOOS == "windows" {
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	} else if runtime.GOOS == "darwin" {
		return []string{"open"}
	}
	return []string{"xdg-open"}
}

func parseOpenCommand(command string) []string {
	if fields := strings.Fields(command); len(fields) > 0 {
		return fields
	}
	return GetDefaultOpenCommand()
}
