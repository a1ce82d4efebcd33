// Package plugins enriches trace entities with runtime metadata about the
// host process.
package plugins

import (
	"os"

	"github.com/shirou/gopsutil/process"

	"github.com/nimbustrace/nimbus/tracing"
)

// HostMetadata describes the process at the time a segment was recorded.
type HostMetadata struct {
	Hostname   string  `json:"hostname"`
	PID        int     `json:"pid"`
	CPUPercent float64 `json:"cpu_percent"`
	MemoryRSS  uint64  `json:"memory_rss"`
}

// CollectHostMetadata samples the current process.
func CollectHostMetadata() (HostMetadata, error) {
	md := HostMetadata{PID: os.Getpid()}

	hostname, err := os.Hostname()
	if err != nil {
		return md, err
	}
	md.Hostname = hostname

	proc, err := process.NewProcess(int32(md.PID))
	if err != nil {
		return md, err
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		return md, err
	}
	md.CPUPercent = cpuPercent

	memInfo, err := proc.MemoryInfo()
	if err != nil {
		return md, err
	}
	md.MemoryRSS = memInfo.RSS

	return md, nil
}

// Annotate attaches host metadata to an entity under the "host" key. An
// entity is annotated best-effort; sampling errors leave it untouched.
func Annotate(e tracing.Entity) {
	md, err := CollectHostMetadata()
	if err != nil {
		return
	}

	e.AddMetadata("host", md)
}
