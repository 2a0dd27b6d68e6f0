package scanner

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/cpu"
)

// monitorCPUUsage logs CPU usage while a long scan runs. Close the returned
// channel to stop it.
func monitorCPUUsage() chan struct{} {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				percentage, err := cpu.Percent(time.Second, false)
				if err == nil && len(percentage) > 0 {
					log.Debug().Float64("cpu_pct", percentage[0]).Msg("scan running")
				}
			}
		}
	}()
	return stop
}
