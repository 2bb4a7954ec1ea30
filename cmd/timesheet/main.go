package main

import (
	"fmt"
	"os"

	"timesheet/internal/api"
	"timesheet/internal/cli"
	"timesheet/internal/clock"
	"timesheet/internal/config"
)

func main() {
	loader := config.NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	clk, err := clock.New(cfg.Time.Zone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving time zone %q: %v\n", cfg.Time.Zone, err)
		os.Exit(1)
	}

	repo, err := config.CreateRepository(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating repository: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close()

	apiInstance := api.New(repo, clk)

	root := cli.NewRootCommand(apiInstance, clk, cfg)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
