package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/marcelsud/activity-refiner/internal/redisconn"
	"github.com/marcelsud/activity-refiner/token"
	tokenredis "github.com/marcelsud/activity-refiner/token/redis"
	"github.com/spf13/viper"
)

/* cli - operator tool for the stored credential record
 * Usage:
 *   cli seed -access <token> -refresh <token>
 *   cli show
 * SECRET_STORE_URI and SECRET_NAME are read from the environment and can
 * be overridden with -uri and -name.
 */

func usage() {
	fmt.Fprintf(os.Stderr, "usage: cli <seed|show> [flags]\n")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	v := viper.New()
	v.SetDefault("SECRET_NAME", "strava-token")
	v.AutomaticEnv()

	cmd := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	uri := cmd.String("uri", v.GetString("SECRET_STORE_URI"), "redis URI of the secret store")
	name := cmd.String("name", v.GetString("SECRET_NAME"), "name of the credential record")
	access := cmd.String("access", "", "access token (seed)")
	refresh := cmd.String("refresh", "", "refresh token (seed)")
	if err := cmd.Parse(os.Args[2:]); err != nil {
		usage()
	}

	if *uri == "" {
		fmt.Fprintln(os.Stderr, "SECRET_STORE_URI or -uri is required")
		os.Exit(1)
	}

	ctx := context.Background()
	client, err := redisconn.Open(ctx, *uri)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer client.Close()
	store := tokenredis.NewStore(client, *name)

	switch os.Args[1] {
	case "seed":
		pair := token.Pair{AccessToken: *access, RefreshToken: *refresh}
		if !pair.Complete() {
			fmt.Fprintln(os.Stderr, "both -access and -refresh are required")
			os.Exit(1)
		}
		if err := store.Save(ctx, pair); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("✓ seeded %s\n", tokenredis.Key(*name))
	case "show":
		pair, err := store.Load(ctx)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Record:        %s\n", tokenredis.Key(*name))
		fmt.Printf("Access token:  %s\n", mask(pair.AccessToken))
		fmt.Printf("Refresh token: %s\n", mask(pair.RefreshToken))
		if !pair.Complete() {
			fmt.Println("❌ record is incomplete - the service will refuse to start units")
			os.Exit(1)
		}
	default:
		usage()
	}
}

// mask keeps the first four characters of a secret
func mask(s string) string {
	switch {
	case s == "":
		return "(missing)"
	case len(s) <= 4:
		return "****"
	default:
		return s[:4] + "****"
	}
}
