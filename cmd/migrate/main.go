package main

import (
	"os"
	"voyage/config"
	"voyage/helper"
	"voyage/shared/logger"

	"github.com/rs/zerolog/log"
)

const usage = "usage: migrate up|down|step-up|drop|version"

func main() {
	if len(os.Args) < 2 {
		log.Fatal().Msg(usage)
	}

	cfg := config.Get()
	logger.InitLogger(cfg)

	if err := helper.Runner(cfg, os.Args[1]); err != nil {
		log.Fatal().Err(err).Msg(usage)
	}
}
