package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/finfootball/go/internal/dbconfig"
)

// Team mirrors the roster JSON structure
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
	Seed    int      `json:"seed"`
}

func main() {
	// 1) Load the JSON roster
	path := "go/internal/assets/teams.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var roster []Team
	if err := json.Unmarshal(data, &roster); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	cfg := dbconfig.FromEnv()
	pool, err := pgxpool.New(context.Background(), cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Upsert and count
	var (
		total    = len(roster)
		inserted int
		skipped  int
		errs     int
	)

	for _, t := range roster {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		cmdTag, err := pool.Exec(context.Background(), `
            INSERT INTO teams (id, name, members, seed, wins, losses, total_score)
            VALUES ($1, $2, $3, $4, 0, 0, 0)
            ON CONFLICT (id) DO NOTHING
        `,
			t.ID, t.Name, t.Members, t.Seed,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting team %s: %v\n", t.Name, err)
			errs++
			continue
		}
		if cmdTag.RowsAffected() == 1 {
			inserted++
		} else {
			skipped++
		}
	}

	// 4) Print summary
	fmt.Printf(
		"Teams seed complete: %d total, %d inserted, %d skipped, %d errors\n",
		total, inserted, skipped, errs,
	)
}
