package main

import (
	"github.com/damon-houk/nbk-rate-viewer/internal/cli"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/logger"
)

func main() {
	if err := cli.Execute(); err != nil {
		logger.Fatal("Command failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
