package main

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/ledgerpad/statement-scan/internal/api"
	"github.com/ledgerpad/statement-scan/internal/batch"
	"github.com/ledgerpad/statement-scan/internal/config"
	"github.com/ledgerpad/statement-scan/internal/ocr"
	"github.com/ledgerpad/statement-scan/internal/parser"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	var out = zerolog.New(os.Stderr)
	if cfg.LogPretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	log := out.With().Timestamp().Logger()

	rec := &ocr.Tesseract{
		Binary: cfg.TesseractBinary,
		Lang:   cfg.TesseractLang,
		PSM:    cfg.TesseractPSM,
	}
	if !rec.Available() {
		log.Warn().Str("binary", cfg.TesseractBinary).
			Msg("OCR engine not found on PATH; screenshot uploads will fail until it is installed")
	}

	orch := batch.New(rec, parser.DefaultConfig(), log)

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.MaxUploadMB << 20,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(api.RequestLogger(log))

	h := &api.Handler{Orch: orch, Log: log}
	h.Register(app)

	log.Info().Str("addr", cfg.Addr).Msg("statement-scan listening")
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
