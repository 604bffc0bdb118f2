package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tornflow/config"
	"tornflow/logger"
	"tornflow/models"
	"tornflow/torn"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service": cfg.Tornflow.Name,
		"version": cfg.Tornflow.Version,
	}).Info("starting tornflow")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Logging.CloudWatch.Enabled {
		logger.InitCloudWatch(cfg.Logging.CloudWatch.Region, cfg.Logging.CloudWatch.Namespace, cfg.Logging.CloudWatch.Dashboard)
		logger.StartReport(ctx, log, 30*time.Second)
	}

	command, id, err := parseArgs(flag.Args())
	if err != nil {
		log.WithError(err).Error("invalid arguments")
		fmt.Fprintln(os.Stderr, "usage: tornflow [flags] <profile|stats|faction|members|item|market|bazaar> <id>")
		os.Exit(1)
	}

	client := torn.New(cfg)
	defer client.Close()

	result, err := run(ctx, client, command, id)
	if err != nil {
		log.WithError(err).WithFields(logger.Fields{"command": command, "id": id}).Error("command failed")
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.WithError(err).Error("failed to encode result")
		os.Exit(1)
	}
	fmt.Println(string(out))

	log.Info("tornflow finished")
}

func parseArgs(args []string) (string, int64, error) {
	if len(args) != 2 {
		return "", 0, fmt.Errorf("expected a command and an ID, got %d arguments", len(args))
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("ID '%s' is not numeric", args[1])
	}
	return args[0], id, nil
}

func run(ctx context.Context, client *torn.Client, command string, id int64) (any, error) {
	switch command {
	case "profile":
		return client.GetUserProfile(ctx, id)
	case "stats":
		return client.GetUserStats(ctx, id)
	case "faction":
		return client.GetFactionInfo(ctx, id)
	case "members":
		return client.GetFactionMembers(ctx, id)
	case "item":
		return client.GetItemInfo(ctx, id)
	case "market":
		listings, err := client.GetItemMarket(ctx, id)
		if err != nil {
			return nil, err
		}
		return marketReport(listings), nil
	case "bazaar":
		listings, err := client.GetPlayerBazaar(ctx, id)
		if err != nil {
			return nil, err
		}
		return marketReport(listings), nil
	default:
		return nil, fmt.Errorf("unknown command '%s'", command)
	}
}

func marketReport(listings []models.Listing) map[string]any {
	return map[string]any{
		"stats":    models.Summarize(listings),
		"cheapest": models.Cheapest(listings, 5),
	}
}
