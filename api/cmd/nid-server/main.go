package main

import (
	"context"
	"log"

	"nid-extract/api/internal/config"
	"nid-extract/api/internal/handle"
	"nid-extract/api/internal/httpserver"
	"nid-extract/api/internal/nid"
	"nid-extract/api/internal/ocr/gemini"
	"nid-extract/api/internal/ocr/genai"
	"nid-extract/api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Optional Postgres cache; the service runs without one.
	var cache nid.Cache
	if dsn := store.ResolveDSN(); dsn != "" {
		db, err := store.Open(context.Background(), dsn)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		log.Printf("db connected")
		cache = store.NewExtractRepo(db)
	}

	engs := &handle.Engines{
		HTTP: gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
		SDK:  genai.New(cfg.GeminiAPIKey, cfg.GeminiModel),
	}

	h := handle.New(engs, cache)
	addr := "0.0.0.0:" + cfg.Port
	log.Fatal(httpserver.StartHTTP(addr, h))
}
