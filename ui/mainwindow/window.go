// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"snapcrop/internal/app"
	"snapcrop/internal/export"
	"snapcrop/internal/presets"
	"snapcrop/ui/canvas"
	"snapcrop/ui/prefs"
)

const (
	prefKeyLastDir = "lastDirectory"
	prefKeyFormat  = "exportFormat"
	prefKeyQuality = "exportQuality"

	defaultQuality = 0.9
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".tif", ".tiff", ".bmp"}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app    fyne.App
	state  *app.State
	prefs  *prefs.Prefs
	canvas *canvas.CropCanvas

	presetList *widget.List
	statusBar  *widget.Label
	zoomLabel  *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, appPrefs *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("SnapCrop")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  appPrefs,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	win.Resize(fyne.NewSize(1100, 720))
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewCropCanvas(mw.state)
	mw.statusBar = widget.NewLabel("Open an image to start")
	mw.zoomLabel = widget.NewLabel("100%")

	toolbar := container.NewHBox(
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.canvas.ZoomOut),
		widget.NewButton("+", mw.canvas.ZoomIn),
		widget.NewButton("Reset", mw.canvas.ResetView),
		mw.zoomLabel,
	)

	canvasArea := container.NewBorder(
		toolbar, // top
		nil, nil, nil,
		mw.canvas,
	)

	split := container.NewHSplit(
		mw.presetPanel(),
		canvasArea,
	)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar), // bottom
		nil, nil,
		split,
	)

	mw.SetContent(content)
}

// presetPanel builds the target-size list with add/remove controls.
func (mw *MainWindow) presetPanel() fyne.CanvasObject {
	mw.presetList = widget.NewList(
		func() int { return len(mw.state.Presets.List()) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			items := mw.state.Presets.List()
			if i >= len(items) {
				return
			}
			p := items[i]
			obj.(*widget.Label).SetText(fmt.Sprintf("%s  %dx%d", p.Label, p.Width, p.Height))
		},
	)

	var selected widget.ListItemID = -1
	mw.presetList.OnSelected = func(id widget.ListItemID) { selected = id }
	mw.presetList.OnUnselected = func(widget.ListItemID) { selected = -1 }

	addBtn := widget.NewButton("Add", mw.onAddPreset)
	removeBtn := widget.NewButton("Remove", func() {
		items := mw.state.Presets.List()
		if selected < 0 || int(selected) >= len(items) {
			return
		}
		if err := mw.state.Presets.Remove(items[selected].ID); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.savePresets()
		mw.presetList.UnselectAll()
		mw.state.Emit(app.EventPresetsChanged, nil)
	})

	return container.NewBorder(
		widget.NewLabel("Export sizes"),
		container.NewHBox(addBtn, removeBtn),
		nil, nil,
		mw.presetList,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export All Sizes...", mw.onExportAll),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Reset View", mw.canvas.ResetView),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu))
}

// setupEventHandlers wires session events to the status display.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		src := mw.state.Source
		mw.SetTitle(fmt.Sprintf("SnapCrop - %s", filepath.Base(src.Path)))
		mw.statusBar.SetText(fmt.Sprintf("Loaded %dx%d image", src.Width, src.Height))
		mw.zoomLabel.SetText("100%")
	})

	mw.state.On(app.EventCropChanged, func(interface{}) {
		r := mw.state.Crop.Rect()
		mw.statusBar.SetText(fmt.Sprintf("Crop %.0fx%.0f at (%.0f, %.0f)", r.Width, r.Height, r.X, r.Y))
	})

	mw.state.On(app.EventCameraChanged, func(interface{}) {
		mw.zoomLabel.SetText(fmt.Sprintf("%.0f%%", mw.state.Camera.Zoom*100))
	})

	mw.state.On(app.EventPresetsChanged, func(interface{}) {
		mw.presetList.Refresh()
	})
}

// onOpenImage shows the image open dialog.
func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		if err := mw.state.LoadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefKeyLastDir, filepath.Dir(path))
		if err := mw.prefs.Save(); err != nil {
			log.Printf("Failed to save preferences: %v", err)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(imageExtensions))

	if lastDir := mw.prefs.String(prefKeyLastDir); lastDir != "" {
		if uri, err := storage.ListerForURI(storage.NewFileURI(lastDir)); err == nil {
			fd.SetLocation(uri)
		}
	}
	fd.Show()
}

// onAddPreset shows the new-preset form.
func (mw *MainWindow) onAddPreset() {
	labelEntry := widget.NewEntry()
	widthEntry := widget.NewEntry()
	heightEntry := widget.NewEntry()

	form := []*widget.FormItem{
		widget.NewFormItem("Label", labelEntry),
		widget.NewFormItem("Width", widthEntry),
		widget.NewFormItem("Height", heightEntry),
	}

	dialog.ShowForm("Add Export Size", "Add", "Cancel", form, func(ok bool) {
		if !ok {
			return
		}
		w, errW := strconv.Atoi(widthEntry.Text)
		h, errH := strconv.Atoi(heightEntry.Text)
		if errW != nil || errH != nil {
			dialog.ShowError(fmt.Errorf("width and height must be whole numbers"), mw.Window)
			return
		}
		label := strings.TrimSpace(labelEntry.Text)
		p := presets.Preset{
			ID:     fmt.Sprintf("%s-%dx%d", strings.ToLower(strings.ReplaceAll(label, " ", "-")), w, h),
			Label:  label,
			Width:  w,
			Height: h,
		}
		if err := mw.state.Presets.Add(p); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.savePresets()
		mw.state.Emit(app.EventPresetsChanged, nil)
	}, mw.Window)
}

// onExportAll runs the export flow: options form, save dialog, batch,
// summary.
func (mw *MainWindow) onExportAll() {
	if !mw.state.HasImage() {
		dialog.ShowInformation("Export", "Open an image first.", mw.Window)
		return
	}
	if !mw.state.Crop.HasCrop() {
		dialog.ShowInformation("Export", "No crop region is defined.", mw.Window)
		return
	}

	formatSelect := widget.NewSelect([]string{"jpeg", "png"}, nil)
	formatSelect.SetSelected(mw.prefs.String(prefKeyFormat))
	if formatSelect.Selected == "" {
		formatSelect.SetSelected("jpeg")
	}
	quality := widget.NewSlider(0, 1)
	quality.Step = 0.05
	quality.Value = mw.prefs.FloatWithFallback(prefKeyQuality, defaultQuality)

	form := []*widget.FormItem{
		widget.NewFormItem("Format", formatSelect),
		widget.NewFormItem("JPEG quality", quality),
	}

	dialog.ShowForm("Export All Sizes", "Export", "Cancel", form, func(ok bool) {
		if !ok {
			return
		}
		opts := export.Options{
			Format:  export.Format(formatSelect.Selected),
			Quality: quality.Value,
		}
		mw.prefs.SetString(prefKeyFormat, formatSelect.Selected)
		mw.prefs.SetFloat(prefKeyQuality, quality.Value)
		if err := mw.prefs.Save(); err != nil {
			log.Printf("Failed to save preferences: %v", err)
		}
		mw.promptArchiveTarget(opts)
	}, mw.Window)
}

// promptArchiveTarget asks where to write the zip and runs the batch.
func (mw *MainWindow) promptArchiveTarget(opts export.Options) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		res, err := mw.state.ExportArchive(writer, opts)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}

		summary := fmt.Sprintf("Exported %d of %d sizes.", len(res.Successes), len(res.Successes)+len(res.Failures))
		for _, f := range res.Failures {
			summary += fmt.Sprintf("\n%s: %v", f.Preset.Label, f.Err)
			log.Printf("Export failed for %s: %v", f.Preset.Label, f.Err)
		}
		dialog.ShowInformation("Export complete", summary, mw.Window)
		mw.statusBar.SetText(summary)
	}, mw.Window)
	fd.SetFileName("renditions.zip")
	fd.Show()
}

// savePresets persists the preset list, logging instead of interrupting
// the user on failure.
func (mw *MainWindow) savePresets() {
	if err := mw.state.Presets.Save(); err != nil {
		log.Printf("Failed to save presets: %v", err)
	}
}
