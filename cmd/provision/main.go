// Command provision registers a new tenant and prints the credentials the
// store owner needs: the plugin settings and the Telegram /start line.
package main

import (
	"StorePing/entity"
	"StorePing/internal/config"
	"StorePing/internal/database"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	slug := flag.String("slug", "", "store slug, e.g. turtle-island")
	name := flag.String("name", "", "store display name")
	timezone := flag.String("timezone", "America/Toronto", "store timezone")
	currency := flag.String("currency", "$", "currency symbol")
	flag.Parse()

	if *slug == "" || *name == "" {
		fmt.Fprintln(os.Stderr, "usage: provision -slug <store-slug> -name <store name> [-timezone tz] [-currency sym]")
		os.Exit(2)
	}

	if _, err := time.LoadLocation(*timezone); err != nil {
		fmt.Fprintf(os.Stderr, "unknown timezone %q: %v\n", *timezone, err)
		os.Exit(2)
	}

	conf := config.MustLoad(*configPath)
	lg := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mongo client: %v\n", err)
		os.Exit(1)
	}
	if db == nil {
		fmt.Fprintln(os.Stderr, "mongo is disabled in the config; enable it before provisioning")
		os.Exit(1)
	}

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		fmt.Fprintf(os.Stderr, "generating secret: %v\n", err)
		os.Exit(1)
	}
	secret := hex.EncodeToString(secretBytes)

	tenant := &entity.Tenant{
		Slug:           strings.ToLower(strings.TrimSpace(*slug)),
		Name:           strings.TrimSpace(*name),
		ApiSecret:      secret,
		Timezone:       *timezone,
		CurrencySymbol: *currency,
	}

	id, err := db.CreateTenant(tenant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating tenant: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n✅ Tenant created! ID: %s\n", id.Hex())
	fmt.Println("\n--- Put these in the plugin settings on the store site ---")
	fmt.Printf("STOREPING_SLUG   = '%s'\n", tenant.Slug)
	fmt.Printf("STOREPING_SECRET = '%s'\n", secret)
	fmt.Println("\n--- Send this to the store owner (for Telegram /start) ---")
	fmt.Printf("/start %s %s\n", tenant.Slug, secret)
	fmt.Println("\n--- Done. They just send that command in Telegram and they're connected. ---")
}
