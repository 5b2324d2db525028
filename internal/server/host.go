package server

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

type HostInfo struct {
	Hostname     string
	Platform     string
	Architecture string
	Uptime func() float64
}

func CurrentHost() HostInfo {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	start := time.Now()
	return HostInfo{
		Hostname:     hostname,
		Platform:     runtime.GOOS,
		Architecture: runtime.GOARCH,
		Uptime: func() float64 {
			if up, ok := procUptime(); ok {
				return up
			}
			return time.Since(start).Seconds()
		},
	}
}

func procUptime() (float64, bool) {
	raw, err := os.ReadFile("/proc/uptime")
	if err != nil {
		return 0, false
	}
	fields := strings.Fields(string(raw))
	if len(fields) == 0 {
		return 0, false
	}
	up, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return up, true
}

type MemoryUsage struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapInuse  uint64 `json:"heap_inuse"`
	NumGC      uint32 `json:"num_gc"`
	Goroutines int    `json:"goroutines"`
}

func currentMemoryUsage() MemoryUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryUsage{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		HeapAlloc:  m.HeapAlloc,
		HeapInuse:  m.HeapInuse,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
}
