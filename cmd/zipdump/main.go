package main

import (
	"log"

	"github.com/nguyengg/zipdump/internal/cmd"
)

func main() {
	p, c, err := cmd.NewParser()
	if err != nil {
		log.Fatal(err)
	}

	args, err := p.Parse()
	if err == nil {
		if err = c.Execute(args); err != nil {
			log.Print(err)
		}
	}

	exit(err)
}
