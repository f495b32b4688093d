package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/golpf/pkg/config"
	"github.com/itohio/golpf/pkg/history"
	"github.com/itohio/golpf/pkg/scope"
	"github.com/itohio/golpf/pkg/telemetry"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createDeviceTab(state),
		createDisplayTab(state),
		createSimulationTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 400))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 400))
	d.Show()
}

// saveConfig validates and persists the configuration, reporting failures in a dialog.
func saveConfig(state *appState) bool {
	if err := state.cfg.Validate(); err != nil {
		dialog.ShowError(err, state.window)
		return false
	}
	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(errors.Wrap(err, "failed to save config"), state.window)
		return false
	}
	log.Info().Str("path", state.configPath).Msg("configuration saved")
	return true
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	ports, err := telemetry.Ports()
	if err != nil {
		log.Warn().Err(err).Msg("failed to list serial ports")
	}

	portOptions := []string{}
	portMap := make(map[string]string) // display name to port name
	for _, port := range ports {
		displayName := port.Name
		if port.Description != "" && port.Description != port.Name {
			displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
		}
		portOptions = append(portOptions, displayName)
		portMap[displayName] = port.Name
	}

	currentPort := state.cfg.Serial.Port
	currentDisplay := ""
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			break
		}
	}
	if currentDisplay == "" && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
		currentDisplay = currentPort
	}

	portSelect := widget.NewSelect(portOptions, nil)
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.BaudRate))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			selectedPort := state.cfg.Serial.Port
			if portSelect.Selected != "" {
				selectedPort = portMap[portSelect.Selected]
				if selectedPort == "" {
					selectedPort = portSelect.Selected
				}
			}
			baud := state.cfg.Serial.BaudRate
			if b, err := strconv.Atoi(baudEntry.Text); err == nil && b > 0 {
				baud = b
			}

			changed := state.cfg.Serial.Port != selectedPort || state.cfg.Serial.BaudRate != baud
			wasConnected := state.isConnected() && !state.useMock

			state.cfg.Serial.Port = selectedPort
			state.cfg.Serial.BaudRate = baud
			if !saveConfig(state) {
				return
			}

			// Reconnect so the new port takes effect
			if changed && wasConnected {
				state.disconnect()
				handleConnect(state)
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createDeviceTab creates the tab describing the flashed firmware.
func createDeviceTab(state *appState) *container.TabItem {
	resolutionSelect := widget.NewSelect([]string{"12", "16"}, nil)
	resolutionSelect.SetSelected(strconv.Itoa(state.cfg.Device.Resolution))

	vrefEntry := widget.NewEntry()
	vrefEntry.SetText(fmt.Sprintf("%.2f", state.cfg.Device.OutputVRef))

	legacyCheck := widget.NewCheck("", nil)
	legacyCheck.SetChecked(state.cfg.Device.LegacyPi)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "ADC Resolution (bits)", Widget: resolutionSelect},
			{Text: "Output VRef (V)", Widget: vrefEntry},
			{Text: "Filter with π = 3.14", Widget: legacyCheck},
		},
		OnSubmit: func() {
			if r, err := strconv.Atoi(resolutionSelect.Selected); err == nil {
				state.cfg.Device.Resolution = r
			}
			if vref, err := strconv.ParseFloat(vrefEntry.Text, 64); err == nil {
				state.cfg.Device.OutputVRef = vref
			}
			state.cfg.Device.LegacyPi = legacyCheck.Checked
			saveConfig(state)
		},
	}

	return container.NewTabItem("Device", form)
}

// createDisplayTab creates the trace display tab.
func createDisplayTab(state *appState) *container.TabItem {
	windowEntry := widget.NewEntry()
	windowEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Display.WindowSeconds))

	pointsEntry := widget.NewEntry()
	pointsEntry.SetText(strconv.Itoa(state.cfg.Display.MaxPoints))

	refreshEntry := widget.NewEntry()
	refreshEntry.SetText(state.cfg.Display.RefreshInterval.String())

	voltsCheck := widget.NewCheck("", nil)
	voltsCheck.SetChecked(state.cfg.Display.ShowVolts)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Window (seconds)", Widget: windowEntry},
			{Text: "Max Points", Widget: pointsEntry},
			{Text: "Refresh Interval", Widget: refreshEntry},
			{Text: "Show Volts", Widget: voltsCheck},
		},
		OnSubmit: func() {
			prev := state.cfg.Display
			if ws, err := strconv.ParseFloat(windowEntry.Text, 64); err == nil {
				state.cfg.Display.WindowSeconds = ws
			}
			if mp, err := strconv.Atoi(pointsEntry.Text); err == nil {
				state.cfg.Display.MaxPoints = mp
			}
			if ri, err := time.ParseDuration(refreshEntry.Text); err == nil {
				state.cfg.Display.RefreshInterval = ri
			}
			state.cfg.Display.ShowVolts = voltsCheck.Checked
			if !saveConfig(state) {
				state.cfg.Display = prev
				return
			}
			applyDisplayConfig(state.cfg.Display, state.recorder, state.scopeWidget)
			state.digitsWidget.SetDecimalPoint(decimalPoint(state.cfg.Display))
		},
	}

	return container.NewTabItem("Display", form)
}

// applyDisplayConfig pushes display settings into the running recorder and scope.
func applyDisplayConfig(d config.DisplayConfig, recorder *history.Recorder, sw *scope.ScopeWidget) {
	recorder.SetWindow(time.Duration(d.WindowSeconds * float64(time.Second)))
	if sw != nil {
		sw.SetMaxPoints(d.MaxPoints)
	}
}

// createSimulationTab creates the simulated board tab. Waveform changes apply
// immediately to a running simulation.
func createSimulationTab(state *appState) *container.TabItem {
	sim := &state.cfg.Simulation

	offsetEntry := widget.NewEntry()
	offsetEntry.SetText(fmt.Sprintf("%.0f", sim.OffsetMV))

	amplitudeEntry := widget.NewEntry()
	amplitudeEntry.SetText(fmt.Sprintf("%.0f", sim.AmplitudeMV))

	frequencyEntry := widget.NewEntry()
	frequencyEntry.SetText(fmt.Sprintf("%.2f", sim.FrequencyHz))

	noiseEntry := widget.NewEntry()
	noiseEntry.SetText(fmt.Sprintf("%.0f", sim.NoiseMV))

	intervalEntry := widget.NewEntry()
	intervalEntry.SetText(sim.TelemetryInterval.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Offset (mV)", Widget: offsetEntry},
			{Text: "Amplitude (mV)", Widget: amplitudeEntry},
			{Text: "Frequency (Hz)", Widget: frequencyEntry},
			{Text: "Noise (mV)", Widget: noiseEntry},
			{Text: "Telemetry Interval", Widget: intervalEntry},
		},
		OnSubmit: func() {
			if v, err := strconv.ParseFloat(offsetEntry.Text, 64); err == nil {
				sim.OffsetMV = v
			}
			if v, err := strconv.ParseFloat(amplitudeEntry.Text, 64); err == nil {
				sim.AmplitudeMV = v
			}
			if v, err := strconv.ParseFloat(frequencyEntry.Text, 64); err == nil {
				sim.FrequencyHz = v
			}
			if v, err := strconv.ParseFloat(noiseEntry.Text, 64); err == nil {
				sim.NoiseMV = v
			}
			if d, err := time.ParseDuration(intervalEntry.Text); err == nil {
				sim.TelemetryInterval = d
			}
			if !saveConfig(state) {
				return
			}

			if mock, ok := state.device.(*telemetry.Mock); ok && mock.IsConnected() {
				mock.SetWaveform(telemetry.WaveformOf(*sim))
			}
		},
	}

	return container.NewTabItem("Simulation", form)
}
