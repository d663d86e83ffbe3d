// Package main is an admin command line for the Sledge Mentorship API:
// registration listing, dashboard stats, receipt lookup and schedule edits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/semzi/sledge/pkg/client"
	"github.com/semzi/sledge/pkg/paginate"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	baseURL := flag.String("api", envOr("SLEDGE_API_URL", "http://localhost:8080"), "API base URL")
	email := flag.String("email", os.Getenv("SLEDGE_ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("SLEDGE_ADMIN_PASSWORD"), "admin password")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(args, *baseURL, *email, *password, logger); err != nil {
		logger.Error("command failed", zap.String("command", args[0]), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(args []string, baseURL, email, password string, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	api := client.New(baseURL)
	if _, err := api.Login(ctx, email, password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer func() {
		if err := api.Logout(context.Background()); err != nil {
			logger.Warn("logout failed", zap.Error(err))
		}
	}()

	switch args[0] {
	case "list":
		return runList(ctx, api, args[1:])
	case "dashboard":
		return runDashboard(ctx, api)
	case "lookup":
		return runLookup(ctx, api, args[1:])
	case "schedule":
		return runSchedule(ctx, api, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: adminctl [flags] <command>

commands:
  list [-q query] [-limit n] [-all]   list registrations
  dashboard                           show dashboard aggregates
  lookup <email>                      find a verified registration id
  schedule add -week n -theme s [-focus s] [-facilitator s] [-date s]
  schedule del <id>                             delete a curriculum week`)
}

// runList pages through the registration listing with a stateful pager,
// so -all walks every page with the same query.
func runList(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	query := fs.String("q", "", "search by name or email")
	limit := fs.Int("limit", paginate.DefaultLimit, "page size")
	all := fs.Bool("all", false, "walk every page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pager := paginate.NewState(*limit)
	pager.SetQuery(*query)

	for {
		params, gen := pager.Begin()
		result, err := api.ListRegistrations(ctx, params)
		if err != nil {
			pager.Fail(gen)
			return err
		}
		pager.Commit(gen, paginate.Envelope{
			Items: result.Items,
			Page:  result.Page,
			Limit: result.Limit,
			Total: result.Total,
		})

		fmt.Printf("page %d/%d (%d total)\n", result.Page, pager.TotalPages(), result.Total)
		for _, row := range result.Items {
			fmt.Printf("  %6d  %-12s  %-28s  %s\n", row.ID, row.RegistrationStatus, row.Email, row.FullName)
		}
		if !*all || !pager.Next() {
			return nil
		}
	}
}

func runDashboard(ctx context.Context, api *client.Client) error {
	sum, err := api.Dashboard(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("registrations: %d total, %d verified, %d pending\n",
		sum.TotalRegistrations, sum.Verified, sum.Pending)
	fmt.Printf("revenue: %s %s\n", sum.Revenue, sum.Currency)
	for _, day := range sum.DailySignups {
		fmt.Printf("  %s  %d\n", day.Date, day.Count)
	}
	return nil
}

func runLookup(ctx context.Context, api *client.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: lookup <email>")
	}
	id, err := api.LookupReceipt(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("registration id: %d\n", id)
	return nil
}

func runSchedule(ctx context.Context, api *client.Client, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: schedule add|del ...")
	}
	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("schedule add", flag.ExitOnError)
		week := fs.Int("week", 0, "week number")
		theme := fs.String("theme", "", "week theme")
		focus := fs.String("focus", "", "key learning focus")
		facilitator := fs.String("facilitator", "", "facilitator name")
		date := fs.String("date", "", "tentative date")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		id, err := api.CreateSchedule(ctx, client.ScheduleItem{
			Week:             *week,
			Theme:            *theme,
			KeyLearningFocus: *focus,
			Facilitator:      *facilitator,
			TentativeDate:    *date,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created week %d (id %d)\n", *week, id)
		return nil
	case "del":
		if len(args) != 2 {
			return fmt.Errorf("usage: schedule del <id>")
		}
		if err := api.DeleteSchedule(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println("deleted", args[1])
		return nil
	default:
		return fmt.Errorf("unknown schedule command %q", args[0])
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
