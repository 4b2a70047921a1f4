package bindings

import (
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/sag-enhanced/webshell/src/options"
	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/crypto/blake2b"
)

var start = time.Now().UnixMilli()

func (b *Bindings) Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from Go!", name)
}

func (b *Bindings) Build() uint32 {
	return b.options.Build
}

func (b *Bindings) Version() string {
	return options.Version
}

func (b *Bindings) Start() int64 {
	return start
}

func (b *Bindings) Url() string {
	return b.ui.CurrentURL()
}

func (b *Bindings) Info() (map[string]any, error) {
	id, _ := machineid.ProtectedID("webshell")
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	var exeHash string
	if content, err := os.ReadFile(exe); err == nil {
		digest := blake2b.Sum256(content)
		exeHash = hex.EncodeToString(digest[:])
	}

	info := map[string]any{
		"build":    b.options.Build,
		"version":  options.Version,
		"os":       runtime.GOOS,
		"arch":     runtime.GOARCH,
		"id":       id,
		"pid":      os.Getpid(),
		"args":     os.Args,
		"exe":      exe,
		"exe_hash": exeHash,
		"ui":       b.options.UI,
		"url":      b.ui.CurrentURL(),
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			info["rss"] = mem.RSS
		}
		if cpu, err := proc.CPUPercent(); err == nil {
			info["cpu"] = cpu
		}
	}
	return info, nil
}

func (b *Bindings) Quit() {
	b.ui.Quit()
}
