package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/medvis/fracturevis/pkg/fracture"
	"github.com/medvis/fracturevis/pkg/geometry"
	"github.com/medvis/fracturevis/pkg/stl"
)

var analyzeOut string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <model.stl> <points.json>",
	Short: "Run the fracture pipeline on local files",
	Long: `Analyze measures fracture geometry from a points file and writes the
deformed model next to the input, together with a timestamped JSON result.

The points file maps labels to annotation coordinates (origin at the
image center, y up):

  {
    "landmarks": {
      "ulna_head": {"x": 0, "y": 100},
      "ulna_tail": {"x": 0, "y": -100}
    },
    "breaks": {
      "ulna_break": {"x": 10, "y": 0}
    }
  }`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "output STL path (default <model>_fractured.stl)")
	rootCmd.AddCommand(analyzeCmd)
}

type pointSpec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type pointsFile struct {
	Landmarks map[string]pointSpec `json:"landmarks"`
	Breaks    map[string]pointSpec `json:"breaks"`
}

type analyzeResult struct {
	Model     string                 `json:"model"`
	Points    string                 `json:"points"`
	Output    string                 `json:"output"`
	Timestamp string                 `json:"timestamp"`
	Fractures []fracture.Measurement `json:"fractures"`
	Clamped   bool                   `json:"clamped"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	modelPath, pointsPath := args[0], args[1]

	model, err := stl.Parse(modelPath)
	if err != nil {
		return fmt.Errorf("parse model: %w", err)
	}

	raw, err := os.ReadFile(pointsPath)
	if err != nil {
		return fmt.Errorf("read points file: %w", err)
	}
	var points pointsFile
	if err := json.Unmarshal(raw, &points); err != nil {
		return fmt.Errorf("parse points file: %w", err)
	}

	landmarks := fracture.Landmarks{}
	for label, p := range points.Landmarks {
		landmarks[label] = geometry.NewPoint2D(p.X, p.Y)
	}
	breaks := fracture.BreakPoints{}
	for label, p := range points.Breaks {
		breaks[label] = geometry.NewPoint2D(p.X, p.Y)
	}

	measurements := fracture.Analyze(landmarks, breaks)
	if len(measurements) == 0 {
		return fmt.Errorf("no bone has a complete landmark pair and break point")
	}

	fractured, clamped := fracture.ApplyAll(model, measurements)
	if clamped {
		fmt.Fprintln(os.Stderr, "Warning: break point outside the landmark span, split ratio clamped")
	}

	outPath := analyzeOut
	if outPath == "" {
		outPath = strings.TrimSuffix(modelPath, ".stl") + "_fractured.stl"
	}
	if err := stl.Write(outPath, fractured); err != nil {
		return fmt.Errorf("write deformed model: %w", err)
	}

	now := time.Now()
	result := analyzeResult{
		Model:     modelPath,
		Points:    pointsPath,
		Output:    outPath,
		Timestamp: now.Format(time.RFC3339),
		Fractures: measurements,
		Clamped:   clamped,
	}

	resultPath := fmt.Sprintf("result_%s.json", now.Format("20060102_150405"))
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(resultPath, data, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	for _, m := range measurements {
		fmt.Printf("%s: location %.3f, angles %.2f / %.2f, severity %s\n",
			m.Bone, m.Location, m.TopAngle, m.BottomAngle, m.Severity)
	}
	fmt.Printf("Deformed model: %s\n", outPath)
	fmt.Printf("Result: %s\n", resultPath)
	return nil
}
