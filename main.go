package main

import (
	"log"

	"github.com/tanishkumarsahu/Code4Edtech/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
