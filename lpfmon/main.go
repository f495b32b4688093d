package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/golpf/pkg/config"
	"github.com/itohio/golpf/pkg/display"
	"github.com/itohio/golpf/pkg/history"
	"github.com/itohio/golpf/pkg/sample"
	"github.com/itohio/golpf/pkg/scope"
	"github.com/itohio/golpf/pkg/telemetry"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		portFlag     = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag   = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag     = flag.Bool("mock", false, "Use simulated board instead of serial port")
		headlessFlag = flag.Bool("headless", false, "Log telemetry instead of opening a window")
		verboseFlag  = flag.Bool("v", false, "Log every frame")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verboseFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configFlag).Msg("failed to load configuration")
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	if *headlessFlag {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := runHeadless(ctx, cfg, *mockFlag); err != nil {
			log.Fatal().Err(err).Msg("headless run failed")
		}
		return
	}

	application := app.NewWithID("com.itohio.golpf")

	window := application.NewWindow("Filtered Voltmeter")
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	state := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		recorder:   history.New(cfg),
		window:     window,
		useMock:    *mockFlag,
	}

	toolbar := createToolbar(state)

	state.scopeWidget = scope.New(cfg)
	state.digitsWidget = scope.NewDigits()
	state.digitsWidget.SetDecimalPoint(decimalPoint(cfg.Display))
	state.status = widget.NewLabel("disconnected")

	state.registerRecorder()

	side := container.NewVBox(state.digitsWidget, state.status)
	window.SetContent(container.NewBorder(toolbar, nil, nil, side, state.scopeWidget))
	window.SetOnClosed(func() {
		state.chain.Close()
	})
	window.ShowAndRun()
}

// appState holds the application state.
type appState struct {
	cfg          *config.Config
	configPath   string
	device       telemetry.Device
	recorder     *history.Recorder
	scopeWidget  *scope.ScopeWidget
	digitsWidget *scope.DigitsWidget
	status       *widget.Label
	window       fyne.Window
	connectBtn   *widget.Button
	useMock      bool
	chain        *measurementChain // nil if not connected

	// Throttling for widget updates
	lastUpdateTime time.Time
	lastDigits     display.Digits
	updateMu       sync.Mutex
}

// createToolbar creates the application toolbar with Connect and Settings buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	clearBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		state.recorder.Clear()
	})

	return container.NewHBox(connectBtn, settingsBtn, clearBtn)
}

// registerRecorder forwards recorder updates to the scope, throttled to the
// configured refresh interval.
func (state *appState) registerRecorder() {
	state.recorder.OnUpdate(func(samples []sample.Sample, stats history.Stats) {
		state.updateMu.Lock()
		now := time.Now()
		if now.Sub(state.lastUpdateTime) < state.cfg.Display.RefreshInterval {
			state.updateMu.Unlock()
			return
		}
		state.lastUpdateTime = now
		state.updateMu.Unlock()

		fyne.Do(func() {
			state.scopeWidget.UpdateData(samples, stats)
		})
	})
}

// onFrame updates the digits widget when the display content changes.
func (state *appState) onFrame(f telemetry.Frame) {
	state.updateMu.Lock()
	changed := state.lastDigits != f.Digits
	state.lastDigits = f.Digits
	state.updateMu.Unlock()

	if changed {
		fyne.Do(func() {
			state.digitsWidget.SetDigits(f.Digits)
		})
	}
}

func (state *appState) isConnected() bool {
	return state.device != nil && state.device.IsConnected()
}

func (state *appState) disconnect() {
	state.chain.Close()
	state.chain = nil
	state.device = nil
	state.status.SetText("disconnected")
	log.Info().Bool("mock", state.useMock).Msg("disconnected")
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.isConnected() {
		state.disconnect()
		return
	}

	device, err := openDevice(state.cfg, state.useMock)
	if err == nil {
		err = device.Connect()
	}
	if err != nil {
		if !state.useMock {
			err = errors.Wrapf(err, "failed to connect to %s", state.cfg.Serial.Port)
		}
		log.Error().Err(err).Msg("connect failed")
		dialog.ShowError(err, state.window)
		return
	}

	state.device = device
	if state.useMock {
		state.status.SetText("simulated board")
	} else {
		state.status.SetText(state.cfg.Serial.Port)
	}
	log.Info().Bool("mock", state.useMock).Str("port", state.cfg.Serial.Port).Msg("connected")
	logDevice(device)

	state.chain = startChain(state.cfg, device, state.recorder, state.onFrame)
}

// decimalPoint returns the digit after which the decimal point is lit:
// after the thousands digit to read the millivolt value as volts.
func decimalPoint(d config.DisplayConfig) int {
	if d.ShowVolts {
		return 3
	}
	return -1
}
