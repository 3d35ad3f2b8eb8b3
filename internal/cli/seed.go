package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"dev-millionaire-service/internal/config"
	"dev-millionaire-service/internal/domain"
	fsbank "dev-millionaire-service/internal/infra/fs"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

// NewSeedCmd loads a directory of per-category question JSON files into the
// question_banks table.
func NewSeedCmd(configPath *string) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load question bank files into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Banks.Dir
			}
			if dir == "" {
				return fmt.Errorf("no bank directory: pass --dir or set banks.dir")
			}
			return runSeed(cmd.Context(), cfg, dir)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory of <category>.json files")
	return cmd
}

type questionBankRow struct {
	bun.BaseModel `bun:"table:question_banks"`

	Category string `bun:"category,pk"`
	Data     []byte `bun:"data,type:jsonb"`
}

func runSeed(ctx context.Context, cfg config.Config, dir string) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	db := openBunDB(cfg.Postgres.URL)
	defer db.Close()

	loader := fsbank.NewBankLoader(dir)
	categories, err := loader.Categories(ctx)
	if err != nil {
		return err
	}

	for _, category := range categories {
		questions, err := loader.LoadBank(ctx, category)
		if err != nil {
			return err
		}
		playable := make([]domain.Question, 0, len(questions))
		for _, q := range questions {
			if q.Valid() {
				playable = append(playable, q)
			}
		}
		if dropped := len(questions) - len(playable); dropped > 0 {
			log.Printf("bank %q: dropped %d malformed records", category, dropped)
		}

		data, err := json.Marshal(playable)
		if err != nil {
			return fmt.Errorf("marshal bank %q: %w", category, err)
		}
		row := questionBankRow{Category: category, Data: data}
		_, err = db.NewInsert().
			Model(&row).
			On("CONFLICT (category) DO UPDATE").
			Set("data = EXCLUDED.data").
			Set("updated_at = now()").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("seed bank %q: %w", category, err)
		}
		log.Printf("seeded bank %q with %d questions", category, len(playable))
	}
	return nil
}
