package metrics

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats снимок ресурсов процесса
type ProcessStats struct {
	CPUPercent float64
	RSSBytes   uint64
}

func (s ProcessStats) String() string {
	return fmt.Sprintf("cpu=%.1f%% rss=%.1fMB", s.CPUPercent, float64(s.RSSBytes)/(1024*1024))
}

// ProcessSampler читает CPU и память текущего процесса через gopsutil.
// Безопасен для вызова из нескольких горутин.
type ProcessSampler struct {
	mu   sync.Mutex
	proc *process.Process
}

// NewProcessSampler создаёт сэмплер для текущего процесса
func NewProcessSampler() (*ProcessSampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть процесс: %w", err)
	}
	return &ProcessSampler{proc: proc}, nil
}

// Sample возвращает текущие показатели процесса.
// Если CPU процесса недоступен, берётся общая загрузка системы.
func (s *ProcessSampler) Sample() (ProcessStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats ProcessStats

	if cpuPercent, err := s.proc.CPUPercent(); err == nil {
		stats.CPUPercent = cpuPercent
	} else if percents, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}

	mem, err := s.proc.MemoryInfo()
	if err != nil {
		return stats, fmt.Errorf("не удалось получить память процесса: %w", err)
	}
	stats.RSSBytes = mem.RSS

	return stats, nil
}
