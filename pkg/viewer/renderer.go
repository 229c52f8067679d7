// Package viewer draws a bone mesh as a rotatable wireframe inside a
// fyne widget.
package viewer

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/medvis/fracturevis/pkg/mesh"
)

// MeshRenderer renders an indexed mesh in 3D. SetMesh swaps the model
// in place, which is how the GUI flips between the intact and deformed
// bone.
type MeshRenderer struct {
	widget.BaseWidget
	mesh      *mesh.Mesh
	camera    *Camera
	lines     []*canvas.Line
	dragStart *fyne.Position
	width     float64
	height    float64
}

func NewMeshRenderer(m *mesh.Mesh) *MeshRenderer {
	r := &MeshRenderer{
		mesh:   m,
		camera: NewCamera(m.BoundingBox()),
	}
	r.ExtendBaseWidget(r)
	return r
}

// SetMesh replaces the displayed mesh, keeping the camera orientation.
func (r *MeshRenderer) SetMesh(m *mesh.Mesh) {
	r.mesh = m
	r.camera.Retarget(m.BoundingBox())
	r.Render(r.width, r.height)
}

func (r *MeshRenderer) CreateRenderer() fyne.WidgetRenderer {
	return &meshWidgetRenderer{renderer: r}
}

// Render projects every triangle edge into screen space.
func (r *MeshRenderer) Render(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width = width
	r.height = height

	r.lines = r.lines[:0]

	for _, tri := range r.mesh.Triangles {
		for i := 0; i < 3; i++ {
			v1 := r.mesh.Vertices[tri[i]]
			v2 := r.mesh.Vertices[tri[(i+1)%3]]

			x1, y1, z1 := r.camera.Project(v1, width, height)
			x2, y2, z2 := r.camera.Project(v2, width, height)

			// Simple depth-based color
			avgZ := (z1 + z2) / 2
			brightness := uint8(math.Max(50, math.Min(255, 100+avgZ*5)))

			line := canvas.NewLine(color.RGBA{brightness, brightness, brightness, 255})
			line.StrokeWidth = 1
			line.Position1 = fyne.NewPos(float32(x1), float32(y1))
			line.Position2 = fyne.NewPos(float32(x2), float32(y2))

			r.lines = append(r.lines, line)
		}
	}

	r.Refresh()
}

// Dragged handles mouse drag events for rotation
func (r *MeshRenderer) Dragged(event *fyne.DragEvent) {
	if r.dragStart != nil {
		deltaX := event.Position.X - r.dragStart.X
		deltaY := event.Position.Y - r.dragStart.Y

		r.camera.Rotate(float64(-deltaY)*0.01, float64(deltaX)*0.01)
		r.Render(r.width, r.height)
	}
	r.dragStart = &event.Position
}

func (r *MeshRenderer) DragEnd() {
	r.dragStart = nil
}

// Scrolled handles scroll events for zooming
func (r *MeshRenderer) Scrolled(event *fyne.ScrollEvent) {
	delta := -float64(event.Scrolled.DY) * 0.001
	r.camera.Zoom(delta)
	r.Render(r.width, r.height)
}

type meshWidgetRenderer struct {
	renderer *MeshRenderer
	objects  []fyne.CanvasObject
}

func (m *meshWidgetRenderer) Layout(size fyne.Size) {
	m.renderer.Render(float64(size.Width), float64(size.Height))
}

func (m *meshWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (m *meshWidgetRenderer) Refresh() {
	m.objects = m.objects[:0]
	for _, line := range m.renderer.lines {
		m.objects = append(m.objects, line)
	}
	canvas.Refresh(m.renderer)
}

func (m *meshWidgetRenderer) Objects() []fyne.CanvasObject {
	return m.objects
}

func (m *meshWidgetRenderer) Destroy() {}
