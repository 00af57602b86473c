package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  appID,
		Usage: "online store with a session cart and payment checkout",
		Commands: []*cli.Command{
			serviceCommand(),
			migrateCommand(),
			itemCommand(),
			discountCommand(),
			taxCommand(),
			orderCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
