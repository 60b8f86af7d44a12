package main

import (
	"context"
	"fmt"
	"log"

	"github.com/ricmgf/on-track/internal/config"
	"github.com/ricmgf/on-track/internal/google"
)

func main() {
	fmt.Println("=== On-Track Authentication ===")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	auth, err := google.NewAuth(cfg.CredentialsPath, cfg.TokenPath, cfg.OAuthRedirectURL)
	if err != nil {
		log.Fatalf("Failed to create auth client: %v", err)
	}

	// This will trigger the OAuth flow if needed
	service, err := auth.GetSheetsService(ctx)
	if err != nil {
		log.Fatalf("Failed to authenticate: %v", err)
	}

	// Test the connection by getting spreadsheet metadata
	spreadsheet, err := service.Spreadsheets.Get(cfg.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		log.Fatalf("Failed to access spreadsheet: %v", err)
	}

	// Create the Log and WeeklyGoals sheets on first run
	store := google.NewStore(service, cfg.SpreadsheetID)
	if err := store.EnsureSheets(ctx); err != nil {
		log.Fatalf("Failed to initialize sheets: %v", err)
	}

	fmt.Println("✅ Authentication successful!")
	fmt.Printf("📊 Connected to spreadsheet: %s\n", spreadsheet.Properties.Title)
	fmt.Println()
	fmt.Println("You can now use the ontrack command:")
	fmt.Println("  ontrack -day              - Show today's activities")
	fmt.Println("  ontrack -toggle Sauna     - Toggle an activity for today")
	fmt.Println("  ontrack -week             - Show this week")
	fmt.Println("  ontrack -month            - Show the monthly scorecard")
	fmt.Println("  ontrack -goals            - Show weekly goals")
}
