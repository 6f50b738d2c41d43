// executor/status_manager.go

package executor

import (
	"sync"
	"time"
)

// Step states.
const (
	StatusQueued    = "Queued"
	StatusRunning   = "Running"
	StatusCompleted = "Completed"
	StatusFailed    = "Failed"
)

const maxLogLines = 100

type ExecutionStatus struct {
	Status    string
	StartTime time.Time
	EndTime   time.Time
}

// StatusManager tracks the build steps of one run. The build itself is
// sequential; the lock is there for the progress view reading from another
// goroutine.
type StatusManager interface {
	SetStatus(name, status string)
	UpdateStatus(name, status string, startTime, endTime time.Time)
	MarkAsFailed(name string)
	FailedCount() int
	Steps() []string
	Status(name string) (ExecutionStatus, bool)
	AppendLog(line string)
	LogLines() []string
}

type statusManager struct {
	order         []string
	statusMap     map[string]*ExecutionStatus
	failedTargets []string
	logLines      []string
	mu            sync.Mutex
}

func NewStatusManager() StatusManager {
	return &statusManager{
		statusMap: make(map[string]*ExecutionStatus),
	}
}

func (sm *statusManager) SetStatus(name, status string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, exists := sm.statusMap[name]; !exists {
		sm.order = append(sm.order, name)
	}
	sm.statusMap[name] = &ExecutionStatus{Status: status}
}

func (sm *statusManager) UpdateStatus(name, status string, startTime, endTime time.Time) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, exists := sm.statusMap[name]; !exists {
		sm.order = append(sm.order, name)
		sm.statusMap[name] = &ExecutionStatus{}
	}
	sm.statusMap[name].Status = status
	if !startTime.IsZero() {
		sm.statusMap[name].StartTime = startTime
	}
	if !endTime.IsZero() {
		sm.statusMap[name].EndTime = endTime
	}
}

func (sm *statusManager) MarkAsFailed(name string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.failedTargets = append(sm.failedTargets, name)
	if _, exists := sm.statusMap[name]; !exists {
		sm.order = append(sm.order, name)
		sm.statusMap[name] = &ExecutionStatus{}
	}
	sm.statusMap[name].Status = StatusFailed
	sm.statusMap[name].EndTime = time.Now()
}

func (sm *statusManager) FailedCount() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.failedTargets)
}

func (sm *statusManager) Steps() []string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return append([]string(nil), sm.order...)
}

func (sm *statusManager) Status(name string) (ExecutionStatus, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	status, ok := sm.statusMap[name]
	if !ok {
		return ExecutionStatus{}, false
	}
	return *status, true
}

func (sm *statusManager) AppendLog(line string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.logLines = append(sm.logLines, line)
	if len(sm.logLines) > maxLogLines {
		sm.logLines = sm.logLines[len(sm.logLines)-maxLogLines:]
	}
}

func (sm *statusManager) LogLines() []string {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return append([]string(nil), sm.logLines...)
}
