// Package main provides the entry point for the SnapCrop application.
package main

import (
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"snapcrop/internal/app"
	"snapcrop/internal/presets"
	"snapcrop/ui/mainwindow"
	"snapcrop/ui/prefs"
)

const (
	appTitle   = "SnapCrop"
	appVersion = "0.1.0"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, appVersion)

	fyneApp := fyneapp.NewWithID("io.snapcrop.app")

	appState := app.NewState(presets.Load())
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, appState, appPrefs)
	win.SetTitle(appTitle)

	// Handle command line arguments
	if len(os.Args) > 1 {
		imagePath := os.Args[1]
		if err := appState.LoadImage(imagePath); err != nil {
			log.Printf("Failed to load image %s: %v", imagePath, err)
		}
	}

	win.ShowAndRun()
}
