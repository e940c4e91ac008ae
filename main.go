package main

import (
	"os"

	"github.com/yeremiapane/restaurant-reservation/cli"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		utils.ErrorLogger.Error(err)
		os.Exit(1)
	}
}
