package main

import (
	"flag"
	"fmt"
	"log"

	"personal-blog/internal/config"
	"personal-blog/internal/database"
	"personal-blog/internal/router"

	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	seedPosts := flag.Int("seed", 0, "insert N fake posts and exit")
	flag.Parse()

	// load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// structured logging
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// development seeding mode: fill and exit
	if *seedPosts > 0 {
		if err := database.Seed(db, *seedPosts); err != nil {
			log.Fatalf("seed database: %v", err)
		}
		logrus.WithField("posts", *seedPosts).Info("seeded fake posts")
		return
	}

	// setup router
	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logrus.WithField("addr", addr).Info("server listening")
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
