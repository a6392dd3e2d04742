package main

import (
	"context"
	"log"
	"time"

	"hoa/internal/app/bootstrap"
)

// Migration entrypoint. Creates or updates the election engine tables and
// exits.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Println("hoa election migrations starting")
	if err := bootstrap.Migrate(ctx); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}
	log.Println("hoa election migrations applied")
}
