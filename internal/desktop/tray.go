//go:build windows

package desktop

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"github.com/awsl-project/dontcaught/internal/domain"
	"github.com/getlantern/systray"
)

//go:embed icon.ico
var iconData []byte

// TrayManager 管理系统托盘
type TrayManager struct {
	ctx             context.Context
	app             *SettingsApp
	menuShow        *systray.MenuItem
	menuSkipTaskbar *systray.MenuItem
	menuServerAddr  *systray.MenuItem
	menuQuit        *systray.MenuItem
	unsubscribe     func()
}

// NewTrayManager 创建托盘管理器
func NewTrayManager(ctx context.Context, app *SettingsApp) *TrayManager {
	return &TrayManager{
		ctx: ctx,
		app: app,
	}
}

// Start 启动托盘
func (t *TrayManager) Start() {
	systray.Run(t.onReady, t.onExit)
}

// onReady 托盘就绪回调
func (t *TrayManager) onReady() {
	log.Println("[Tray] Initializing system tray...")

	systray.SetIcon(iconData)
	systray.SetTitle("DontCaught")
	systray.SetTooltip("DontCaught")

	t.menuShow = systray.AddMenuItem("Show window", "Show the settings window")
	systray.AddSeparator()

	state, _ := t.app.GetToggle(domain.SettingKeySkipTaskbar)
	t.menuSkipTaskbar = systray.AddMenuItemCheckbox(domain.SkipTaskbarText.OnLabel, domain.SkipTaskbarText.OnDescription, state.Value)
	t.menuServerAddr = systray.AddMenuItem("Settings API: -", "Local settings API address")
	t.menuServerAddr.Disable()

	systray.AddSeparator()
	t.menuQuit = systray.AddMenuItem("Quit", "Quit DontCaught")

	t.unsubscribe = t.app.components.Page.Subscribe(func(s domain.ToggleState) {
		if s.Key == domain.SettingKeySkipTaskbar {
			t.UpdateStatus()
		}
	})
	t.UpdateStatus()

	go t.handleMenuEvents()
}

// onExit 托盘退出回调
func (t *TrayManager) onExit() {
	if t.unsubscribe != nil {
		t.unsubscribe()
	}
	log.Println("[Tray] System tray exited")
}

// handleMenuEvents 处理菜单事件
func (t *TrayManager) handleMenuEvents() {
	for {
		select {
		case <-t.menuShow.ClickedCh:
			log.Println("[Tray] Show window clicked")
			t.app.ShowWindow()

		case <-t.menuSkipTaskbar.ClickedCh:
			want := !t.menuSkipTaskbar.Checked()
			log.Printf("[Tray] Skip taskbar clicked -> %v", want)
			go func() {
				if _, err := t.app.SetToggle(domain.SettingKeySkipTaskbar, want); err != nil {
					log.Printf("[Tray] Failed to update skip taskbar: %v", err)
					t.UpdateStatus()
				}
			}()

		case <-t.menuQuit.ClickedCh:
			log.Println("[Tray] Quit clicked")
			t.app.Quit()
			systray.Quit()
			return
		}
	}
}

// UpdateStatus 更新托盘菜单状态
func (t *TrayManager) UpdateStatus() {
	if state, err := t.app.GetToggle(domain.SettingKeySkipTaskbar); err == nil {
		if state.Value {
			t.menuSkipTaskbar.Check()
		} else {
			t.menuSkipTaskbar.Uncheck()
		}
		if state.Loading {
			t.menuSkipTaskbar.Disable()
		} else {
			t.menuSkipTaskbar.Enable()
		}
	}

	if addr := t.app.GetServerAddress(); addr != "" {
		t.menuServerAddr.SetTitle(fmt.Sprintf("Settings API: %s", addr))
	} else {
		t.menuServerAddr.SetTitle("Settings API: -")
	}
}
