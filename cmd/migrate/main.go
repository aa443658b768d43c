// Package main applies the embedded database migrations and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"solana-sniper-terminal/internal/storage/migrations"
	pgstore "solana-sniper-terminal/internal/storage/postgres"
)

func main() {
	godotenv.Load()

	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	timeout := flag.Duration("timeout", 60*time.Second, "Overall migration timeout")
	flag.Parse()

	if *postgresDSN == "" || *clickhouseDSN == "" {
		fmt.Fprintln(os.Stderr, "both -postgres-dsn and -clickhouse-dsn are required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "postgres migrations: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("postgres migrations applied")

	chConn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clickhouse migrations: %v\n", err)
		os.Exit(1)
	}
	chConn.Close()
	fmt.Println("clickhouse migrations applied")
}
