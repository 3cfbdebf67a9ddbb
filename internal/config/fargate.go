package config

import "fmt"

// fargateSize is one CPU tier and the memory values Fargate accepts for it.
type fargateSize struct {
	cpu       int
	minMemory int
	maxMemory int
	step      int
}

// fargateSizes is ordered by CPU so the first fit is the smallest task.
var fargateSizes = []fargateSize{
	{cpu: 256, minMemory: 512, maxMemory: 2048, step: 512},
	{cpu: 512, minMemory: 1024, maxMemory: 4096, step: 1024},
	{cpu: 1024, minMemory: 2048, maxMemory: 8192, step: 1024},
	{cpu: 2048, minMemory: 4096, maxMemory: 16384, step: 1024},
	{cpu: 4096, minMemory: 8192, maxMemory: 30720, step: 1024},
}

// FargateTaskSize returns the smallest task-level CPU and memory
// combination that fits a container reserving cpu units and memory MiB.
func FargateTaskSize(cpu, memory int) (int, int, error) {
	if cpu <= 0 || memory <= 0 {
		return 0, 0, fmt.Errorf("cpu and memory must be positive, got cpu=%d memory=%d", cpu, memory)
	}
	for _, s := range fargateSizes {
		if cpu > s.cpu || memory > s.maxMemory {
			continue
		}
		m := s.minMemory
		for m < memory {
			m += s.step
		}
		// 256 CPU units accept 512, 1024 and 2048 MiB only.
		if s.cpu == 256 && m == 1536 {
			m = 2048
		}
		return s.cpu, m, nil
	}
	return 0, 0, fmt.Errorf("no Fargate task size fits cpu=%d memory=%d", cpu, memory)
}
