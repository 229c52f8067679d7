package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medvis/fracturevis/version"
)

var rootCmd = &cobra.Command{
	Use:   "fracturevis",
	Short: "Forearm fracture analysis and bone model deformation",
	Long: `fracturevis measures forearm fracture geometry from annotated X-ray
landmarks and bends 3D bone models to match. It runs as an HTTP service
(serve), as a one-shot file pipeline (analyze), or as a mesh inspector
(info).`,
	Version: version.GetVersion(),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
