package utils

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
)

// GetCPUUsage returns host CPU usage since the previous call, as a percentage.
// It returns 0 when the reading is unavailable.
func GetCPUUsage(ctx context.Context) float64 {
	percentage, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(percentage) == 0 {
		return 0
	}
	CPUUsage.Set(percentage[0])
	return percentage[0]
}
