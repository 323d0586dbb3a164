package main

import (
	"fmt"
	"log"

	"github.com/cardsrv/drawpoker/config"
	"github.com/cardsrv/drawpoker/events"
	"github.com/cardsrv/drawpoker/game"
	"github.com/cardsrv/drawpoker/lobby"
	"github.com/cardsrv/drawpoker/server"
)

func main() {
	fmt.Println("Starting Draw Poker Backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	opts := []lobby.Option{lobby.WithTurnTimeout(cfg.TurnTimeout)}
	if cfg.Debug {
		opts = append(opts, lobby.WithDebug())
	}

	store := events.NewInMemoryEventStore()
	factory := game.NewStandardFactory(cfg.Table)
	l := lobby.New(factory, store, opts...)
	defer l.Close()

	s := server.NewServer(l)
	if err := s.Start(cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
