package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		log.WithError(err).Error("storefront failed")
		os.Exit(1)
	}
}
