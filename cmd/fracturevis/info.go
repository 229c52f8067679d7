package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medvis/fracturevis/pkg/stl"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display information about a bone model",
	Long:  "Show mesh statistics: vertex and triangle counts, bounding box, long-axis span, and surface area.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	filename := args[0]

	model, err := stl.Parse(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing STL file: %v\n", err)
		os.Exit(1)
	}

	box := model.BoundingBox()
	size := box.Size()
	yMin, yMax := model.YRange()

	fmt.Println("Bone Model Information")
	fmt.Println("======================")
	if model.Name != "" {
		fmt.Printf("Name: %s\n", model.Name)
	}
	fmt.Printf("File: %s\n\n", filename)

	fmt.Println("Mesh Statistics:")
	fmt.Printf("  Vertices: %d\n", model.VertexCount())
	fmt.Printf("  Triangles: %d\n", model.TriangleCount())
	fmt.Printf("  Surface Area: %.6f square units\n\n", model.SurfaceArea())

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: (%.6f, %.6f, %.6f)\n", box.Min.X, box.Min.Y, box.Min.Z)
	fmt.Printf("  Max: (%.6f, %.6f, %.6f)\n", box.Max.X, box.Max.Y, box.Max.Z)
	fmt.Printf("  Diagonal: %.6f units\n\n", box.Diagonal())

	fmt.Println("Dimensions:")
	fmt.Printf("  Width (X): %.6f units\n", size.X)
	fmt.Printf("  Height (Y): %.6f units\n", size.Y)
	fmt.Printf("  Depth (Z): %.6f units\n", size.Z)
	fmt.Printf("  Long axis (Y) span: %.6f to %.6f\n", yMin, yMax)
}
