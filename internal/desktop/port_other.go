//go:build !windows

package desktop

// CheckPortOccupied 非 Windows 平台的空实现
func CheckPortOccupied(port int) (int, error) {
	return -1, nil
}
