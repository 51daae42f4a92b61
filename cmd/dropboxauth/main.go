package main

import (
	"flag"
	"os"
	"path"

	"github.com/SubhanRaj/jitsi-meet/internal/cmd"
	"github.com/SubhanRaj/jitsi-meet/internal/config"
	"github.com/SubhanRaj/jitsi-meet/internal/logging"
	log "github.com/sirupsen/logrus"
)

func init() {
	logging.Setup()
}

func main() {
	var login bool
	var refresh bool
	var account bool
	var usage bool
	var watch bool
	var noBrowser bool
	var configPath string

	flag.BoolVar(&login, "login", false, "Authorize a Dropbox account for recording uploads")
	flag.BoolVar(&refresh, "refresh", false, "Refresh the saved access token")
	flag.BoolVar(&account, "account", false, "Show the authorized account's display name")
	flag.BoolVar(&usage, "usage", false, "Show the authorized account's space usage")
	flag.BoolVar(&watch, "watch", false, "Keep the saved token fresh until interrupted")
	flag.BoolVar(&noBrowser, "no-browser", false, "Print the authorization URL instead of opening a browser")
	flag.StringVar(&configPath, "config", "", "Configuration file path")

	flag.Parse()

	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatalf("failed to get working directory: %v", err)
		}
		configPath = path.Join(wd, "config.yaml")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	if err = logging.ConfigureOutput(cfg.LoggingToFile); err != nil {
		log.Fatalf("failed to configure logging: %v", err)
	}

	switch {
	case login:
		cmd.DoLogin(cfg, &cmd.LoginOptions{NoBrowser: noBrowser})
	case refresh:
		cmd.DoRefresh(cfg)
	case account:
		cmd.DoAccountInfo(cfg)
	case usage:
		cmd.DoSpaceUsage(cfg)
	case watch:
		cmd.DoWatch(cfg, configPath)
	default:
		flag.Usage()
	}
}
