package main

import (
	"os"

	"github.com/pgg/classroom/core"
	logsvc "github.com/pgg/classroom/services/logger"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewStdLogger("ADMIN : ", conf)

	cli := commandLine{
		apiURL: conf.Admin.APIURL,
		out:    os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("error: %s\n", err)
		}
		os.Exit(1)
	}
}
