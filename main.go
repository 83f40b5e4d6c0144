package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"log"
	"os"
	goruntime "runtime"

	"github.com/awsl-project/dontcaught/internal/config"
	"github.com/awsl-project/dontcaught/internal/core"
	"github.com/awsl-project/dontcaught/internal/desktop"
	"github.com/awsl-project/dontcaught/internal/taskbar"
	"github.com/awsl-project/dontcaught/internal/version"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	dataDir := flag.String("data", "", "Data directory for config, database and logs (default: ~/.config/dontcaught)")
	noServer := flag.Bool("no-server", false, "Do not start the local settings API")
	showVersion := flag.Bool("version", false, "Show version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Name, version.Full())
		os.Exit(0)
	}

	// Determine data directory: CLI flag > env var > default
	cfg, err := config.Load(config.ResolveDataDir(*dataDir))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if closer, err := core.SetupLogging(cfg.LogPath()); err != nil {
		log.Printf("Warning: %v", err)
	} else {
		defer closer.Close()
	}
	log.Printf("Starting DontCaught %s", version.Info())
	log.Printf("Data directory: %s", cfg.DataDir)

	tb := taskbar.NewController(cfg.Settings.WindowTitle)
	components, err := core.NewComponents(cfg, tb)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	var server *core.ManagedServer
	if !*noServer {
		server = core.NewManagedServer(&core.ServerConfig{
			Addr:    cfg.Server.Addr,
			Handler: components.Handler(),
		})
	}
	app := desktop.NewSettingsApp(components, server)

	// 保存 app context 用于菜单回调
	ctxCh := make(chan context.Context, 1)

	// 初始化托盘（在 goroutine 中运行，避免阻塞主线程）
	go func() {
		tray := desktop.NewTrayManager(<-ctxCh, app)
		tray.Start()
	}()

	// Create application menu (only for macOS)
	var appMenu *menu.Menu
	if goruntime.GOOS == "darwin" {
		appMenu = menu.NewMenu()
		appMenu.Append(menu.AppMenu())

		fileMenu := appMenu.AddSubmenu("File")
		fileMenu.AddText("Settings", keys.CmdOrCtrl(","), func(_ *menu.CallbackData) {
			app.ShowWindow()
		})
		fileMenu.AddSeparator()
		fileMenu.AddText("Quit", keys.CmdOrCtrl("q"), func(_ *menu.CallbackData) {
			app.Quit()
		})

		// Edit Menu (for copy/paste support)
		appMenu.Append(menu.EditMenu())
	}

	err = wails.Run(&options.App{
		Title:             cfg.Settings.WindowTitle,
		Width:             520,
		Height:            360,
		MinWidth:          420,
		MinHeight:         280,
		HideWindowOnClose: goruntime.GOOS == "windows",
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup: func(ctx context.Context) {
			ctxCh <- ctx
			app.Startup(ctx)
		},
		OnDomReady:    app.DomReady,
		OnBeforeClose: app.BeforeClose,
		OnShutdown:    app.Shutdown,
		Bind: []interface{}{
			app,
		},
		Menu: appMenu,
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			DisableWindowIcon:    false,
		},
		Mac: &mac.Options{
			TitleBar:             mac.TitleBarDefault(),
			Appearance:           mac.NSAppearanceNameDarkAqua,
			WebviewIsTransparent: true,
			WindowIsTranslucent:  true,
			About: &mac.AboutInfo{
				Title:   "DontCaught",
				Message: "Version " + version.Version,
			},
		},
	})
	if err != nil {
		log.Fatal("Error:", err)
	}
}
