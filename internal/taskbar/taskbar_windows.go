//go:build windows

package taskbar

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW       = user32.NewProc("FindWindowW")
	procGetWindowLongPtrW = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW = user32.NewProc("SetWindowLongPtrW")
	procIsWindowVisible   = user32.NewProc("IsWindowVisible")
	procShowWindow        = user32.NewProc("ShowWindow")
)

var gwlExStyle = -20

const (
	wsExToolWindow = 0x00000080
	wsExAppWindow  = 0x00040000
	swHide         = 0
	swShowNA       = 8
)

// setSkipTaskbar 通过 WS_EX_TOOLWINDOW 把窗口从任务栏移除；
// 样式只在窗口重新显示时生效，所以可见窗口需要先隐藏再显示
func setSkipTaskbar(title string, skip bool) error {
	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return err
	}
	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(titlePtr)))
	if hwnd == 0 {
		return fmt.Errorf("window %q not found", title)
	}

	style, _, _ := procGetWindowLongPtrW.Call(hwnd, uintptr(gwlExStyle))
	if skip {
		style = (style | wsExToolWindow) &^ wsExAppWindow
	} else {
		style = (style | wsExAppWindow) &^ wsExToolWindow
	}

	visible, _, _ := procIsWindowVisible.Call(hwnd)
	if visible != 0 {
		procShowWindow.Call(hwnd, swHide)
	}
	procSetWindowLongPtrW.Call(hwnd, uintptr(gwlExStyle), style)
	if visible != 0 {
		procShowWindow.Call(hwnd, swShowNA)
	}
	return nil
}
