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

// Question mirrors the JSON snapshot structure
type Question struct {
	ID         string            `json:"id"`
	Prompt     string            `json:"prompt"`
	Options    map[string]string `json:"options"`
	CorrectKey string            `json:"correct_key"`
	Category   string            `json:"category"`
}

func main() {
	path := "go/internal/assets/questions.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// 1) Load the JSON snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var bank []Question
	if err := json.Unmarshal(data, &bank); err != nil {
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
		total    = len(bank)
		inserted int
		skipped  int
		errs     int
	)

	for _, q := range bank {
		if _, ok := q.Options[q.CorrectKey]; !ok {
			fmt.Fprintf(os.Stderr, "question %s: correct key %q not among options, skipping\n", q.ID, q.CorrectKey)
			errs++
			continue
		}
		id := q.ID
		if id == "" {
			id = uuid.New().String()
		}
		options, err := json.Marshal(q.Options)
		if err != nil {
			fmt.Fprintf(os.Stderr, "question %s: marshal options: %v\n", q.ID, err)
			errs++
			continue
		}

		cmdTag, err := pool.Exec(context.Background(), `
            INSERT INTO questions (
              id, prompt, options, correct_key, category
            ) VALUES (
              $1,$2,$3,$4,$5
            )
            ON CONFLICT (id) DO NOTHING
        `,
			id, q.Prompt, options, q.CorrectKey, q.Category,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting question %s: %v\n", id, err)
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
		"Questions seed complete: %d total, %d inserted, %d skipped, %d errors\n",
		total, inserted, skipped, errs,
	)
}
