package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

func setupLog() (func() error, error) {
	// Log to file, if set
	if logFile := os.Getenv("TTSPIPE_LOG"); logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return func() error { return nil }, err
		}
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
		return f.Close, nil
	}

	log.SetOutput(os.Stderr)
	if viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	return func() error { return nil }, nil
}
