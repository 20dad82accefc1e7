package tui

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/carmerge/internal/assets"
	"github.com/vovakirdan/carmerge/internal/config"
	"github.com/vovakirdan/carmerge/internal/engine"
	"github.com/vovakirdan/carmerge/internal/storage"
)

// RoundStore records finished rounds and lists the best ones.
type RoundStore interface {
	SaveRound(r storage.RoundResult) (int64, error)
	BestRounds(variant string, limit int) ([]storage.RoundResult, error)
}

// Publisher receives a snapshot whenever a round changes.
type Publisher interface {
	Publish(round, variant string, snap engine.Snapshot)
}

// Env carries what every screen of a session needs.
// Store and Watch are optional.
type Env struct {
	Config  config.MergeConfig
	Catalog *assets.Catalog
	Store   RoundStore
	Watch   Publisher
	Logger  *log.Logger
	Player  string // SSH user, empty when playing locally
}

func (e Env) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}
