//go:build windows

package desktop

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// CheckPortOccupied 返回监听指定端口的进程 PID，未被占用时返回 -1
func CheckPortOccupied(port int) (int, error) {
	cmd := exec.Command("netstat", "-ano", "-p", "TCP")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return -1, fmt.Errorf("执行 netstat 失败: %w", err)
	}
	return parseNetstat(out.String(), port), nil
}

func parseNetstat(output string, port int) int {
	want := strconv.Itoa(port)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 || fields[3] != "LISTENING" {
			continue
		}
		localAddr := fields[1]
		idx := strings.LastIndex(localAddr, ":")
		if idx == -1 || localAddr[idx+1:] != want {
			continue
		}
		if pid, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
			return pid
		}
	}
	return -1
}
