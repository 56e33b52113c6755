package main

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/temirov/codearchive/internal/cli"
	"github.com/temirov/codearchive/internal/utils"
)

// main is the entry point for the codearchive command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer func() {
		_ = loggerInstance.Sync()
	}()
	// A missing .env is normal; credentials may come from the environment.
	_ = godotenv.Load()
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
