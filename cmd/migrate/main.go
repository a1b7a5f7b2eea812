package main

import (
	"github.com/JustAdi10/Booking/config"
	"github.com/JustAdi10/Booking/helper"
	"github.com/JustAdi10/Booking/shared/logger"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
)

type UpCmd struct{}

func (c *UpCmd) Run(cfg *config.Config) error {
	return helper.Up(cfg)
}

type DownCmd struct {
	Steps int `help:"Number of migrations to roll back." default:"1"`
}

func (c *DownCmd) Run(cfg *config.Config) error {
	return helper.Down(cfg, c.Steps)
}

type StepUpCmd struct {
	Steps int `help:"Number of migrations to apply." default:"1"`
}

func (c *StepUpCmd) Run(cfg *config.Config) error {
	return helper.StepUp(cfg, c.Steps)
}

type DropCmd struct{}

func (c *DropCmd) Run(cfg *config.Config) error {
	return helper.Drop(cfg)
}

var CLI struct {
	Up     UpCmd     `cmd:"" help:"Apply all pending migrations."`
	Down   DownCmd   `cmd:"" help:"Roll back migrations."`
	StepUp StepUpCmd `cmd:"" help:"Apply the next migrations." name:"step-up"`
	Drop   DropCmd   `cmd:"" help:"Roll back every migration."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("migrate"),
		kong.Description("Booking database migrations"),
		kong.UsageOnError(),
	)

	logger.InitLogger()

	cfg := config.Get()
	logger.SetLogLevel(cfg)

	if err := ctx.Run(cfg); err != nil {
		log.Fatal().Err(err).Str("command", ctx.Command()).Msg("Migration failed")
	}
}
