// cmd/kabo/main.go

// Hot-seat entrypoint: one human at the terminal against greedy bots.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/KoubaPetr/kabo/internal/bot"
	"github.com/KoubaPetr/kabo/internal/console"
	"github.com/KoubaPetr/kabo/internal/game"
)

func main() {
	name := flag.String("name", "PLAYER", "your display name")
	bots := flag.Int("bots", 1, "number of bot opponents (1-3)")
	seed := flag.Int64("seed", 0, "rng seed, 0 picks one from the clock")
	verbose := flag.Bool("verbose", false, "log engine internals")
	flag.Parse()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	human := console.NewPlayer(strings.ToUpper(*name), os.Stdin, os.Stdout)
	players := []*game.Player{game.NewPlayer(0, human.Name, human)}
	for i := 0; i < *bots; i++ {
		botName := fmt.Sprintf("BOT_%d", i+1)
		players = append(players, game.NewPlayer(i+1, botName, bot.NewGreedy(nil)))
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewSource(*seed))
	}

	m, err := game.NewMatch(players, rng, logger)
	if err != nil {
		log.Fatalf("cannot start match: %v", err)
	}

	result, err := m.Play()
	if err != nil {
		log.Fatalf("match aborted: %v", err)
	}

	fmt.Printf("\nMatch over after %d rounds. %s wins!\n", result.RoundsPlayed, result.Winner.Name)
	for i, p := range result.Standings {
		fmt.Printf("%d. %s with %d points\n", i+1, p.Name, p.GameScore)
	}
}
