package main

import (
	"log"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/tidewater/clarion/pkg/alarms"
	"github.com/tidewater/clarion/pkg/audio"
	"github.com/tidewater/clarion/pkg/logging"
	"github.com/tidewater/clarion/pkg/models"
	"github.com/tidewater/clarion/pkg/platform"
	"github.com/tidewater/clarion/pkg/sched"
	"github.com/tidewater/clarion/pkg/store"
	"github.com/tidewater/clarion/pkg/tones"
)

type Clarion struct {
	app     fyne.App
	logger  *zap.Logger
	manager *alarms.Manager
	tones   *tones.Registry

	mainWindow fyne.Window
	alarmList  *AlarmList

	// One ringing window per active episode.
	ringWindows map[string]*RingingWindow
}

func main() {
	logger, err := logging.New(
		os.Getenv("CLARION_LOG_LEVEL"),
		os.Getenv("CLARION_LOG_FORMAT"),
		"clarion")
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	c := &Clarion{
		app:         app.NewWithID("com.tidewater.clarion"),
		logger:      logger,
		ringWindows: make(map[string]*RingingWindow),
	}

	if err := c.initialize(); err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}

	c.run()
}

func (c *Clarion) initialize() error {
	st := store.New(store.NewPreferencesKV(c.app.Preferences()), c.logger)
	c.tones = tones.NewRegistry(userTonesDir(), c.logger)

	player := audio.NewPlayer(c.logger)
	scheduler := sched.New(
		player,
		c.tones,
		&fyneNotifier{app: c.app},
		&logVibrator{logger: c.logger},
		platform.NewWakeLock(c.logger),
		c.logger,
	)
	c.manager = alarms.New(st, scheduler, c.logger)
	c.manager.OnRing(c.showRinging)

	if err := setupAutostart(c.app.Preferences().BoolWithFallback(prefAutostart, false)); err != nil {
		c.logger.Warn("autostart setup failed", zap.Error(err))
	}

	c.manager.Load()
	c.setupMainWindow()
	c.setupSystemTray()
	return nil
}

func (c *Clarion) run() {
	c.app.Run()
}

// showRinging opens (or raises) the fullscreen ringing window for the
// event. Called from timer goroutines, so all UI work goes through fyne.Do.
func (c *Clarion) showRinging(event *models.AlarmEvent) {
	fyne.Do(func() {
		id := event.Alarm.ID
		if rw, ok := c.ringWindows[id]; ok {
			rw.Raise()
			return
		}
		rw := NewRingingWindow(c.app, c.manager, event, func() {
			delete(c.ringWindows, id)
			c.refresh()
		})
		c.ringWindows[id] = rw
		rw.Show()
	})
}

// refresh redraws the alarm list and the tray menu after any mutation.
func (c *Clarion) refresh() {
	if c.alarmList != nil {
		c.alarmList.Refresh()
	}
	c.updateSystemTrayMenu()
}

func (c *Clarion) quit() {
	c.manager.Shutdown()
	c.app.Quit()
}

// userTonesDir is where users drop their own WAV files.
func userTonesDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(configDir, "clarion", "tones")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return dir
}
