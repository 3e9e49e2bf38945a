package main

import (
	"errors"
	"os"

	"diranalyzer-setup/internal/cli"
	"diranalyzer-setup/internal/logger"
)

func main() {
	if err := cli.ExecuteUninstall(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			logger.Error("[ERROR] %s\n", exitErr.Message)
			os.Exit(exitErr.Code)
		}
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}
