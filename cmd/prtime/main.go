// main is the entry point for the prtime CLI.
package main

import (
	"os"

	"github.com/huangsam/prtime/cmd"
	"github.com/huangsam/prtime/internal/contract"
	"github.com/huangsam/prtime/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseCaching()

	err := cmd.Execute()

	if profErr := cmd.StopProfiling(); profErr != nil {
		contract.LogWarn("stopping profiler", profErr)
	}

	if err != nil {
		iocache.CloseCaching()
		contract.LogWarn("command failed", err)
		os.Exit(1)
	}
}
