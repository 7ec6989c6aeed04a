package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/ayusman/phuljhari/internal/app"
	"github.com/ayusman/phuljhari/internal/config"
	"github.com/ayusman/phuljhari/internal/server"
	"github.com/ayusman/phuljhari/internal/store"
	"github.com/ayusman/phuljhari/internal/tray"
)

const enabledSettingKey = "effect_enabled"

func main() {
	fmt.Println("Phuljhari - Sparkler Trails")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "phuljhari.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	application, err := app.New(app.Config{
		Effect: cfg,
		Store:  st,
	})
	if err != nil {
		log.Fatalf("Failed to initialize pipeline: %v", err)
	}

	enabled := loadEnabled(st)
	application.SetEnabled(enabled)

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer application.Stop()

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findWebDir(cfg.DataDir)
	}
	if staticDir != "" {
		fmt.Printf("Serving static files from: %s\n", staticDir)
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		Store:     st,
		Frames:    application.Frames(),
		States:    application.States(),
		Recorder:  application.Recorder(),
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t := tray.New(enabled)
	t.OnToggle(func(enabled bool) {
		application.SetEnabled(enabled)
		if err := st.Settings().Set(enabledSettingKey, strconv.FormatBool(enabled)); err != nil {
			log.Printf("Failed to persist enabled state: %v", err)
		}
	})
	t.OnRecord(func(start bool) {
		rec := application.Recorder()
		if rec == nil {
			return
		}
		if start {
			if _, err := rec.Start(); err != nil {
				log.Printf("Failed to start recording: %v", err)
				t.SetRecording(false)
			}
		} else {
			if _, err := rec.Stop(); err != nil {
				log.Printf("Failed to stop recording: %v", err)
			}
		}
	})
	t.OnViewer(func() {
		openBrowser("http://localhost" + cfg.Addr)
	})
	t.OnQuit(func() {
		log.Println("Shutting down")
	})

	// systray must run on the main thread and blocks until quit.
	t.Run()
}

// loadEnabled reads the persisted enabled state, defaulting to true.
func loadEnabled(st *store.Store) bool {
	value, err := st.Settings().Get(enabledSettingKey)
	if err != nil {
		return true
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return true
	}
	return enabled
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	dataWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dataWebDir); err == nil && info.IsDir() {
		return dataWebDir
	}

	return ""
}
