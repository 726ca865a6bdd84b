package main

import (
	"log"

	"github.com/bobuhiro11/pirqdump/flag"
)

func main() {
	if err := flag.Parse(); err != nil {
		log.Fatal(err)
	}
}
