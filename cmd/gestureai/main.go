package main

import (
	"fmt"
	"log"
	"os"

	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/app"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/config"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/gesture"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/recognition"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/server"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/store"
	"github.com/JohnMarulanda/GestureAI-Core-sub000/internal/tray"
)

func main() {
	fmt.Println("GestureAI - Hand Gesture Recognition")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	catalog := gesture.LoadCatalog(cfg.CatalogPath())

	st, err := store.New(cfg.HistoryPath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(app.Config{
		Settings: cfg,
		Catalog:  catalog,
		Store:    st,
	})
	defer a.Close()

	if err := a.Start(); err != nil {
		log.Printf("Recognition not started: %v", err)
	}

	// Serve the HTTP facade in the background
	srv := server.New(server.Config{
		Catalog: catalog,
		Store:   st,
		Manager: a.Manager(),
		Machine: a.Machine(),
	})
	go func() {
		fmt.Printf("Starting server on %s\n", cfg.ListenAddr)
		if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnQuit(func() {
		if err := a.Close(); err != nil {
			log.Printf("Error shutting down recognition: %v", err)
		}
	})

	// Show the most recent gesture in the tray menu
	a.SubscribeAll(func(ev recognition.Event) {
		if ev.Kind == recognition.KindDetected && ev.Detection != nil {
			t.SetLastGesture(ev.Detection.Name)
		}
	})

	// Blocks until the tray quits
	t.Run()
}
