package cli

import (
	"fmt"
	"os"
	"time"

	"calctl/core/config"
	"calctl/core/constants"
	"calctl/core/errors"
	"calctl/core/server"
	agendaservice "calctl/modules/agenda/service"
	backupservice "calctl/modules/backup/service"
	"calctl/modules/event/dto"
	eventservice "calctl/modules/event/service"
	icsservice "calctl/modules/ics/service"

	"github.com/urfave/cli/v2"
)

func addCommand(cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a new event",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "event title", Required: true},
			&cli.StringFlag{Name: "date", Usage: "date (YYYY-MM-DD)", Required: true},
			&cli.StringFlag{Name: "time", Usage: "start time (HH:MM)", Required: true},
			&cli.IntFlag{Name: "duration", Usage: "duration in minutes", Required: true},
			&cli.StringFlag{Name: "location", Usage: "location"},
			&cli.StringFlag{Name: "description", Usage: "description"},
			&cli.BoolFlag{Name: "force", Usage: "schedule even on conflict"},
		},
		Action: func(c *cli.Context) error {
			repo, closeRepo, err := openRepo(*cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			svc := eventservice.NewEventService(repo)
			result, appErr := svc.Create(c.Context, &dto.CreateEventRequest{
				Title:           c.String("title"),
				Date:            c.String("date"),
				StartTime:       c.String("time"),
				DurationMinutes: c.Int("duration"),
				Location:        c.String("location"),
				Description:     c.String("description"),
				Force:           c.Bool("force"),
			})
			if appErr != nil {
				return fail(appErr)
			}

			if c.Bool("json") {
				return printJSON(result)
			}
			fmt.Printf("Added event %s\n", result.Event.ID)
			if len(result.Conflicts) > 0 {
				fmt.Printf("Warning: scheduled over %d conflicting event(s)\n", len(result.Conflicts))
			}
			return printEvents([]dto.EventResponse{result.Event}, false)
		},
	}
}

func listCommand(cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List events",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "from date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "to", Usage: "to date (YYYY-MM-DD)"},
			&cli.BoolFlag{Name: "today", Usage: "today's events"},
			&cli.BoolFlag{Name: "week", Usage: "this week's events"},
		},
		Action: func(c *cli.Context) error {
			repo, closeRepo, err := openRepo(*cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			svc := agendaservice.NewAgendaService(repo, (*cfg).WeekStart)

			var events []dto.EventResponse
			var appErr *errors.AppError
			switch {
			case c.Bool("today"):
				events, appErr = svc.FilterToday(c.Context, "")
			case c.Bool("week"):
				events, appErr = svc.FilterWeek(c.Context, "")
			case c.String("from") != "" || c.String("to") != "":
				events, appErr = svc.FilterByRange(c.Context, c.String("from"), c.String("to"))
			default:
				events, appErr = svc.ListUpcoming(c.Context, "")
			}
			if appErr != nil {
				return fail(appErr)
			}
			return printEvents(events, c.Bool("json"))
		},
	}
}

func showCommand(cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show event details",
		ArgsUsage: "<event-id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("Usage: calctl show <event-id>", 1)
			}

			repo, closeRepo, err := openRepo(*cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			svc := eventservice.NewEventService(repo)
			result, appErr := svc.Get(c.Context, c.Args().First())
			if appErr != nil {
				return fail(appErr)
			}

			if c.Bool("json") {
				return printJSON(result)
			}
			e := result.Event
			fmt.Printf("Event: %s\n", e.Title)
			fmt.Printf("Date: %s %s - %s\n", e.Date, e.StartTime, e.EndTime)
			fmt.Printf("Duration: %d minutes\n", e.DurationMinutes)
			if e.Location != "" {
				fmt.Printf("Location: %s\n", e.Location)
			}
			if e.Description != "" {
				fmt.Printf("Description: %s\n", e.Description)
			}
			if len(result.Conflicts) > 0 {
				fmt.Printf("Conflicts with %d event(s):\n", len(result.Conflicts))
				for _, conflict := range result.Conflicts {
					fmt.Printf("  %s | %s | %s - %s\n", conflict.ID, conflict.Title, conflict.StartTime, conflict.EndTime)
				}
			}
			return nil
		},
	}
}

func editCommand(cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit an event",
		ArgsUsage: "<event-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "new title"},
			&cli.StringFlag{Name: "date", Usage: "new date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "time", Usage: "new start time (HH:MM)"},
			&cli.IntFlag{Name: "duration", Usage: "new duration in minutes"},
			&cli.StringFlag{Name: "location", Usage: "new location"},
			&cli.StringFlag{Name: "description", Usage: "new description"},
			&cli.BoolFlag{Name: "force", Usage: "apply even on conflict"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("Usage: calctl edit <event-id> [flags]", 1)
			}

			req := &dto.UpdateEventRequest{Force: c.Bool("force")}
			if c.IsSet("title") {
				v := c.String("title")
				req.Title = &v
			}
			if c.IsSet("date") {
				v := c.String("date")
				req.Date = &v
			}
			if c.IsSet("time") {
				v := c.String("time")
				req.StartTime = &v
			}
			if c.IsSet("duration") {
				v := c.Int("duration")
				req.DurationMinutes = &v
			}
			if c.IsSet("location") {
				v := c.String("location")
				req.Location = &v
			}
			if c.IsSet("description") {
				v := c.String("description")
				req.Description = &v
			}

			repo, closeRepo, err := openRepo(*cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			svc := eventservice.NewEventService(repo)
			result, appErr := svc.Update(c.Context, c.Args().First(), req)
			if appErr != nil {
				return fail(appErr)
			}

			if c.Bool("json") {
				return printJSON(result)
			}
			fmt.Printf("Updated event %s\n", result.Event.ID)
			return nil
		},
	}
}

func deleteCommand(cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an event, or all events on a date",
		ArgsUsage: "<event-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "delete every event on this date"},
			&cli.BoolFlag{Name: "force", Usage: "skip confirmation"},
		},
		Action: func(c *cli.Context) error {
			repo, closeRepo, err := openRepo(*cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			svc := eventservice.NewEventService(repo)

			if date := c.String("date"); date != "" {
				if !c.Bool("force") && !confirm(fmt.Sprintf("Delete all events on %s?", date)) {
					fmt.Println("Cancelled")
					return nil
				}
				result, appErr := svc.DeleteByDate(c.Context, date)
				if appErr != nil {
					return fail(appErr)
				}
				if c.Bool("json") {
					return printJSON(result)
				}
				fmt.Printf("Deleted %d event(s) on %s\n", result.Count, date)
				return nil
			}

			if c.NArg() != 1 {
				return cli.Exit("Usage: calctl delete <event-id> | calctl delete --date <date>", 1)
			}
			id := c.Args().First()

			if !c.Bool("force") {
				existing, appErr := svc.Get(c.Context, id)
				if appErr != nil {
					return fail(appErr)
				}
				if !confirm(fmt.Sprintf("Delete %q?", existing.Event.Title)) {
					fmt.Println("Cancelled")
					return nil
				}
			}

			deleted, appErr := svc.Delete(c.Context, id)
			if appErr != nil {
				return fail(appErr)
			}
			if c.Bool("json") {
				return printJSON(deleted)
			}
			fmt.Printf("Deleted event %s\n", deleted.ID)
			return nil
		},
	}
}

func searchCommand(cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search events",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "title", Usage: "search titles only"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("Usage: calctl search <query>", 1)
			}

			repo, closeRepo, err := openRepo(*cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			svc := agendaservice.NewAgendaService(repo, (*cfg).WeekStart)
			events, appErr := svc.Search(c.Context, c.Args().First(), c.Bool("title"))
			if appErr != nil {
				return fail(appErr)
			}
			return printEvents(events, c.Bool("json"))
		},
	}
}

func agendaCommand(cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:  "agenda",
		Usage: "Show the agenda for a day or week",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "specific date (YYYY-MM-DD)"},
			&cli.BoolFlag{Name: "week", Usage: "week view"},
		},
		Action: func(c *cli.Context) error {
			repo, closeRepo, err := openRepo(*cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			svc := agendaservice.NewAgendaService(repo, (*cfg).WeekStart)

			if c.Bool("week") {
				agenda, appErr := svc.WeekAgenda(c.Context, c.String("date"))
				if appErr != nil {
					return fail(appErr)
				}
				if c.Bool("json") {
					return printJSON(agenda)
				}
				fmt.Printf("Agenda %s - %s (%d event(s))\n", agenda.From, agenda.To, agenda.TotalEvents)
				for date := agenda.From; date != "" && date <= agenda.To; {
					for _, e := range agenda.EventsByDate[date] {
						fmt.Printf("%s %s - %s\n", date, e.StartTime, e.Title)
					}
					date, _ = nextDate(date)
				}
				return nil
			}

			agenda, appErr := svc.DayAgenda(c.Context, c.String("date"))
			if appErr != nil {
				return fail(appErr)
			}
			if c.Bool("json") {
				return printJSON(agenda)
			}
			fmt.Printf("Agenda for %s (%d event(s))\n", agenda.Date, agenda.TotalEvents)
			for _, e := range agenda.Events {
				fmt.Printf("%s - %s\n", e.StartTime, e.Title)
			}
			return nil
		},
	}
}

func exportCommand(cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export events as an iCalendar file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file (default: <calendar-name>.ics)"},
			&cli.StringFlag{Name: "from", Usage: "from date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "to", Usage: "to date (YYYY-MM-DD)"},
		},
		Action: func(c *cli.Context) error {
			repo, closeRepo, err := openRepo(*cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			svc := icsservice.NewICSService(repo, eventservice.NewEventService(repo), (*cfg).CalendarName)
			result, appErr := svc.Export(c.Context, c.String("from"), c.String("to"))
			if appErr != nil {
				return fail(appErr)
			}

			output := c.String("output")
			if output == "" {
				output = result.Filename
			}
			if output == "-" {
				fmt.Print(string(result.Data))
				return nil
			}
			if err := os.WriteFile(output, result.Data, 0o600); err != nil {
				return fail(err)
			}
			fmt.Printf("Exported %d event(s) to %s\n", result.Count, output)
			return nil
		},
	}
}

func importCommand(cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import events from an iCalendar file",
		ArgsUsage: "<file.ics>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "import even on conflicts"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("Usage: calctl import <file.ics>", 1)
			}

			data, err := os.ReadFile(c.Args().First())
			if err != nil {
				return fail(err)
			}

			repo, closeRepo, err := openRepo(*cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			svc := icsservice.NewICSService(repo, eventservice.NewEventService(repo), (*cfg).CalendarName)
			result, appErr := svc.Import(c.Context, data, c.Bool("force"))
			if appErr != nil {
				return fail(appErr)
			}

			if c.Bool("json") {
				return printJSON(result)
			}
			fmt.Printf("Imported %d event(s)\n", len(result.Imported))
			for _, skipped := range result.Skipped {
				fmt.Printf("Skipped %q: %s\n", skipped.Summary, skipped.Reason)
			}
			return nil
		},
	}
}

func backupCommand(cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Write a snapshot of the event database",
		Action: func(c *cli.Context) error {
			repo, closeRepo, err := openRepo(*cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			svc := backupservice.NewBackupService(repo, (*cfg).Backup)
			result, appErr := svc.Run(c.Context)
			if appErr != nil {
				return fail(appErr)
			}

			if c.Bool("json") {
				return printJSON(result)
			}
			fmt.Printf("Backed up %d event(s) to %s\n", result.Count, result.Path)
			if result.Uploaded {
				fmt.Println("Snapshot uploaded to S3")
			}
			return nil
		},
	}
}

func serveCommand(cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the REST API server",
		Action: func(c *cli.Context) error {
			if err := server.Run(*cfg); err != nil {
				return fail(err)
			}
			return nil
		},
	}
}

// nextDate advances a calendar date string by one day.
func nextDate(date string) (string, error) {
	day, err := time.ParseInLocation(constants.DateFormat, date, time.Local)
	if err != nil {
		return "", err
	}
	return day.AddDate(0, 0, 1).Format(constants.DateFormat), nil
}
