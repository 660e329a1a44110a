package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creative-builder/internal/api"
	"creative-builder/internal/config"
	"creative-builder/internal/service"
	"creative-builder/internal/storage"
	"creative-builder/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var store storage.StyleStore
	if cfg.DatabaseURL != "" {
		pg, err := storage.OpenPG(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("init postgres store: %v", err)
		}
		defer pg.Close()
		store = pg
	} else {
		fileStore, err := storage.NewStore(cfg.DataPath)
		if err != nil {
			log.Fatalf("init store: %v", err)
		}
		store = fileStore
	}

	hub := ws.NewHub()
	go hub.Run()
	sessionHub := ws.NewSessionHub()

	fonts, err := service.NewFontManager(cfg.FontBoldPath, cfg.FontRegularPath)
	if err != nil {
		log.Fatalf("init fonts: %v", err)
	}
	renderer := service.NewRenderer(fonts)
	compliance := service.MockCompliance{Delay: time.Duration(cfg.ComplianceDelayMS) * time.Millisecond}

	styleSvc := service.NewStyleService(store, hub)
	creativeSvc := service.NewCreativeService(cfg, styleSvc, renderer, compliance, hub, sessionHub)

	router := api.NewRouter(cfg, hub, sessionHub, styleSvc, creativeSvc)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s data=%q", cfg.ListenAddr, cfg.DataPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	creativeSvc.Close()
	hub.Close()
}
