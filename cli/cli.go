package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"calctl/core/config"
	"calctl/core/constants"
	"calctl/core/logger"
	"calctl/modules/event/dto"
	"calctl/modules/event/repository"

	"github.com/urfave/cli/v2"
)

// App builds the calctl command-line application.
func App() *cli.App {
	var cfg *config.Config

	app := &cli.App{
		Name:    constants.AppName,
		Usage:   "a command-line calendar manager",
		Version: constants.AppVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the config file",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "path to the events database",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "output as JSON",
			},
		},
		Before: func(c *cli.Context) error {
			loaded, err := config.Load(c.String("config"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
			if db := c.String("db"); db != "" {
				loaded.Storage.Path = db
			}
			logger.SetLevel(loaded.LogLevel)
			cfg = loaded
			return nil
		},
	}

	app.Commands = []*cli.Command{
		addCommand(&cfg),
		listCommand(&cfg),
		showCommand(&cfg),
		editCommand(&cfg),
		deleteCommand(&cfg),
		searchCommand(&cfg),
		agendaCommand(&cfg),
		exportCommand(&cfg),
		importCommand(&cfg),
		backupCommand(&cfg),
		serveCommand(&cfg),
	}
	return app
}

// openRepo builds the configured repository for one command invocation.
func openRepo(cfg *config.Config) (repository.EventRepositoryInterface, func() error, error) {
	repo, closeRepo, err := repository.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	return repo, closeRepo, nil
}

// fail renders a service error as a non-zero exit.
func fail(err error) error {
	return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// printEvents renders events one per line, or as JSON with --json.
func printEvents(events []dto.EventResponse, jsonOut bool) error {
	if jsonOut {
		return printJSON(events)
	}
	if len(events) == 0 {
		fmt.Println("No events.")
		return nil
	}
	for _, e := range events {
		fmt.Printf("%s | %s | %s | %s\n", e.ID, e.Title, e.Date, e.StartTime)
	}
	return nil
}

// confirm prompts for y/N on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var answer string
	if _, err := fmt.Fscanln(os.Stdin, &answer); err != nil {
		return false
	}
	return answer == "y" || answer == "Y" || answer == "yes"
}
