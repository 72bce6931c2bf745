package main

import (
	"log"
	"os"

	"github.com/tangakou/msaada/core"
	mongodb "github.com/tangakou/msaada/storage/mongo"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB
	db, closeDB, err := mongodb.Open(conf)
	errAndDie(err)
	defer closeDB()

	// start CLI
	cli := commandLine{
		conf:    conf,
		usrRepo: mongodb.NewUserRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
