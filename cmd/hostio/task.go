// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/chelnak/ysmrr"
)

// taskManager renders one spinner per task. When disabled every call is a
// no-op and progress reaches the user through the log only.
type taskManager struct {
	sm      ysmrr.SpinnerManager
	enabled bool
}

type task struct {
	spinner *ysmrr.Spinner
}

func newTaskManager(enabled bool) *taskManager {
	tm := &taskManager{enabled: enabled}
	if enabled {
		tm.sm = ysmrr.NewSpinnerManager()
		tm.sm.Start()
	}
	return tm
}

func (tm *taskManager) add(title string) *task {
	if !tm.enabled {
		return &task{}
	}
	return &task{spinner: tm.sm.AddSpinner(title)}
}

func (tm *taskManager) stop() {
	if tm.enabled {
		tm.sm.Stop()
	}
}

func (t *task) updatef(format string, a ...any) {
	if t.spinner != nil {
		t.spinner.UpdateMessagef(format, a...)
	}
}

func (t *task) complete(format string, a ...any) {
	if t.spinner != nil {
		t.spinner.UpdateMessagef(format, a...)
		t.spinner.Complete()
	}
}

// check marks the task failed when err is non-nil.
func (t *task) check(err error) bool {
	if err == nil {
		return true
	}
	if t.spinner != nil {
		t.spinner.UpdateMessage(err.Error())
		t.spinner.Error()
	}
	return false
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
