package main

import (
	"context"
	"log"

	"github.com/xproducts/ordering-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("ordering API failed: %v", err)
	}
}
