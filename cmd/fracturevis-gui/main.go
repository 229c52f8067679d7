package main

import (
	"fmt"
	"os"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/medvis/fracturevis/pkg/fracture"
	"github.com/medvis/fracturevis/pkg/mesh"
	"github.com/medvis/fracturevis/pkg/stl"
	"github.com/medvis/fracturevis/pkg/viewer"
)

type App struct {
	window   fyne.Window
	original *mesh.Mesh
	deformed *mesh.Mesh
	renderer *viewer.MeshRenderer

	topAngleEntry    *widget.Entry
	bottomAngleEntry *widget.Entry
	ratioEntry       *widget.Entry
	statsLabel       *widget.Label
}

func main() {
	a := app.New()
	w := a.NewWindow("FractureVis - Bone Deformation Preview")

	appInstance := &App{
		window: w,
	}

	if len(os.Args) > 1 {
		appInstance.loadFile(os.Args[1])
	} else {
		appInstance.showWelcomeScreen()
	}

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
}

func (a *App) showWelcomeScreen() {
	welcomeLabel := widget.NewLabel("Welcome to FractureVis")
	welcomeLabel.TextStyle = fyne.TextStyle{Bold: true}

	instructionLabel := widget.NewLabel("Click 'Open Bone Model' to load an STL file")

	openButton := widget.NewButton("Open Bone Model", func() {
		a.showFileDialog()
	})

	content := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(welcomeLabel),
		container.NewCenter(instructionLabel),
		layout.NewSpacer(),
		container.NewCenter(openButton),
		layout.NewSpacer(),
	)

	a.window.SetContent(content)
}

func (a *App) showFileDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		a.loadFile(reader.URI().Path())
	}, a.window)
}

func (a *App) loadFile(filename string) {
	m, err := stl.Parse(filename)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to load STL file: %w", err), a.window)
		return
	}

	a.original = m
	a.deformed = nil
	a.setupMainUI()
}

func (a *App) setupMainUI() {
	a.renderer = viewer.NewMeshRenderer(a.original)

	a.topAngleEntry = widget.NewEntry()
	a.topAngleEntry.SetText("10")
	a.bottomAngleEntry = widget.NewEntry()
	a.bottomAngleEntry.SetText("-10")
	a.ratioEntry = widget.NewEntry()
	a.ratioEntry.SetText("0.5")

	a.statsLabel = widget.NewLabel("")
	a.updateStats(a.original, "original")

	applyButton := widget.NewButton("Apply Deformation", func() {
		a.applyDeformation()
	})

	resetButton := widget.NewButton("Show Original", func() {
		a.deformed = nil
		a.renderer.SetMesh(a.original)
		a.updateStats(a.original, "original")
	})

	openButton := widget.NewButton("Open File", func() {
		a.showFileDialog()
	})

	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• Set bend angles in degrees and the split ratio (0 to 1)\n" +
			"• Apply Deformation to bend the bone at the fracture plane\n" +
			"• Drag to rotate the view\n" +
			"• Scroll to zoom in/out",
	)
	instructions.Wrapping = fyne.TextWrapWord

	infoPanel := container.NewVBox(
		widget.NewLabel("Fracture Parameters:"),
		widget.NewSeparator(),
		widget.NewLabel("Top angle (degrees):"),
		a.topAngleEntry,
		widget.NewLabel("Bottom angle (degrees):"),
		a.bottomAngleEntry,
		widget.NewLabel("Split ratio:"),
		a.ratioEntry,
		widget.NewSeparator(),
		applyButton,
		resetButton,
		widget.NewSeparator(),
		widget.NewLabel("Model Information:"),
		widget.NewSeparator(),
		a.statsLabel,
		widget.NewSeparator(),
		instructions,
		widget.NewSeparator(),
		openButton,
	)

	infoScroll := container.NewVScroll(infoPanel)
	infoScroll.SetMinSize(fyne.NewSize(300, 0))

	content := container.NewBorder(
		nil,
		nil,
		nil,
		infoScroll,
		a.renderer,
	)

	a.window.SetContent(content)
	a.renderer.Render(800, 600)
}

func (a *App) applyDeformation() {
	topAngle, err := strconv.ParseFloat(a.topAngleEntry.Text, 64)
	if err != nil {
		dialog.ShowError(fmt.Errorf("invalid top angle: %w", err), a.window)
		return
	}
	bottomAngle, err := strconv.ParseFloat(a.bottomAngleEntry.Text, 64)
	if err != nil {
		dialog.ShowError(fmt.Errorf("invalid bottom angle: %w", err), a.window)
		return
	}
	ratio, err := strconv.ParseFloat(a.ratioEntry.Text, 64)
	if err != nil {
		dialog.ShowError(fmt.Errorf("invalid ratio: %w", err), a.window)
		return
	}

	a.deformed = fracture.Deform(a.original, topAngle, bottomAngle, ratio)
	a.renderer.SetMesh(a.deformed)
	a.updateStats(a.deformed, "deformed")
}

func (a *App) updateStats(m *mesh.Mesh, state string) {
	box := m.BoundingBox()
	size := box.Size()

	a.statsLabel.SetText(fmt.Sprintf(
		"Showing: %s\nVertices: %d\nTriangles: %d\nSurface Area: %.2f\n\nDimensions:\n  X: %.2f\n  Y: %.2f\n  Z: %.2f",
		state,
		m.VertexCount(),
		m.TriangleCount(),
		m.SurfaceArea(),
		size.X,
		size.Y,
		size.Z,
	))
}
