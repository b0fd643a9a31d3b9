package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hangsolve/go-server/internal/dict"
	"github.com/hangsolve/go-server/internal/httpserver"
	"github.com/hangsolve/go-server/internal/store"
	"github.com/hangsolve/go-server/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}

	indexLetter := getEnv("INDEX_LETTER", "E")
	index, err := dict.New(words.List(), indexLetter[0])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build dictionary index")
	}
	log.Info().Int("words", index.WordCount()).Str("indexLetter", indexLetter).Msg("dictionary indexed")

	db, err := openDB(getEnv("DB_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, db, index, words.List())
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting hangman-go")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
