package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/medvis/fracturevis/internal/advisory"
	"github.com/medvis/fracturevis/internal/config"
	"github.com/medvis/fracturevis/internal/detect"
	"github.com/medvis/fracturevis/internal/server"
	"github.com/medvis/fracturevis/internal/session"
	"github.com/medvis/fracturevis/pkg/stl"
	"github.com/medvis/fracturevis/pkg/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis service",
	Long:  "Start the HTTP API: X-ray upload with break detection, landmark processing, and deformed model download. Configured through environment variables.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	defaultMesh, err := stl.Parse(cfg.ModelPath)
	if err != nil {
		log.Printf("default model %s unavailable (%v), using procedural fallback", cfg.ModelPath, err)
		defaultMesh = nil
	} else {
		log.Printf("loaded default model %s: %d triangles", cfg.ModelPath, defaultMesh.TriangleCount())
	}

	var detector detect.Detector
	detectorLive := false
	if cfg.DetectorURL != "" {
		client := detect.NewClient(cfg.DetectorURL, cfg.DetectorTimeout)
		ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
		if err := client.Health(ctx); err != nil {
			log.Printf("detector sidecar at %s not reachable (%v), using fallback points", cfg.DetectorURL, err)
			detector = detect.Fallback{}
		} else {
			detector = client
			detectorLive = true
			log.Printf("detector sidecar live at %s", cfg.DetectorURL)
		}
		cancel()
	} else {
		detector = detect.Fallback{}
	}

	var advisor advisory.Advisor = advisory.Disabled{}
	if cfg.AdvisoryAPIKey != "" {
		advisor = advisory.NewClient(cfg.AdvisoryURL, cfg.AdvisoryAPIKey, cfg.AdvisoryModel, cfg.AdvisoryTimeout)
		log.Printf("medical advisory enabled (%s)", cfg.AdvisoryModel)
	}

	srv := server.New(cfg, session.NewMemoryStore(), detector, detectorLive, advisor, defaultMesh)

	mw, err := watcher.New(cfg.ModelPath, 500*time.Millisecond, func(path string) {
		m, err := stl.Parse(path)
		if err != nil {
			log.Printf("model reload failed for %s: %v", path, err)
			return
		}
		srv.SetDefaultModel(m)
		log.Printf("reloaded default model %s: %d triangles", path, m.TriangleCount())
	})
	if err != nil {
		log.Printf("model hot reload disabled: %v", err)
	} else {
		defer mw.Close()
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
