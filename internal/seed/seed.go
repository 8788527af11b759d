// internal/seed/seed.go
package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"directory-service/internal/domain/i18n"
	"directory-service/internal/domain/plan"
	"directory-service/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// File is the YAML fixture format for bootstrapping a directory.
type File struct {
	Regions []Region `yaml:"regions"`
	Venues  []Venue  `yaml:"venues"`
}

type Region struct {
	Name   string `yaml:"name"`
	Slug   string `yaml:"slug"`
	Cities []City `yaml:"cities"`
}

type City struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type Venue struct {
	Slug        string                  `yaml:"slug"`
	Name        map[string]string       `yaml:"name"`
	Description map[string]string       `yaml:"description"`
	Category    string                  `yaml:"category"`
	Region      string                  `yaml:"region"`
	City        string                  `yaml:"city"`
	Address     string                  `yaml:"address"`
	Phone       string                  `yaml:"phone"`
	WhatsApp    string                  `yaml:"whatsapp"`
	Plan        string                  `yaml:"plan"`
	Schedule    schedule.WeeklySchedule `yaml:"schedule"`
	OpenTime    string                  `yaml:"open_time"`
	CloseTime   string                  `yaml:"close_time"`
	Tags        []string                `yaml:"tags"`
}

// Result counts rows written by Run. Venues that already exist are skipped.
type Result struct {
	Regions int
	Cities  int
	Venues  int
	Skipped int
}

func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a fixture and rejects unknown plans, unknown region/city
// references and malformed schedules before anything touches the database.
func Parse(raw []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) Validate() error {
	cities := make(map[string]bool)
	for _, r := range f.Regions {
		if r.Slug == "" || r.Name == "" {
			return fmt.Errorf("region %q: name and slug are required", r.Slug)
		}
		for _, c := range r.Cities {
			if c.Slug == "" || c.Name == "" {
				return fmt.Errorf("region %q: city name and slug are required", r.Slug)
			}
			cities[r.Slug+"/"+c.Slug] = true
		}
	}

	var errs []error
	for i := range f.Venues {
		v := &f.Venues[i]
		if v.Slug == "" || len(v.Name) == 0 {
			errs = append(errs, fmt.Errorf("venue #%d: slug and name are required", i))
			continue
		}
		if !cities[v.Region+"/"+v.City] {
			errs = append(errs, fmt.Errorf("venue %q: unknown city %s/%s", v.Slug, v.Region, v.City))
		}
		if v.Plan == "" {
			v.Plan = string(plan.Free)
		}
		key, err := plan.ParseKey(v.Plan)
		if err != nil {
			errs = append(errs, fmt.Errorf("venue %q: %w", v.Slug, err))
		} else {
			v.Plan = string(key)
		}
		for _, entry := range schedule.Validate(v.Schedule, v.OpenTime, v.CloseTime) {
			errs = append(errs, fmt.Errorf("venue %q: %w", v.Slug, entry))
		}
	}
	return errors.Join(errs...)
}

type Seeder struct {
	db     *sql.DB
	logger *zap.Logger
}

func New(db *sql.DB, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// Run writes the fixture in one transaction. Regions and cities are upserted
// by slug; venues are inserted only when their slug is free.
func (s *Seeder) Run(ctx context.Context, f *File) (Result, error) {
	var res Result
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	cityIDs := make(map[string][2]int64)
	for _, r := range f.Regions {
		var regionID int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO regions (name, slug) VALUES ($1, $2)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, r.Name, r.Slug).Scan(&regionID)
		if err != nil {
			return res, fmt.Errorf("failed to upsert region %s: %w", r.Slug, err)
		}
		res.Regions++

		for _, c := range r.Cities {
			var cityID int64
			err := tx.QueryRowContext(ctx, `
				INSERT INTO cities (region_id, name, slug) VALUES ($1, $2, $3)
				ON CONFLICT (region_id, slug) DO UPDATE SET name = EXCLUDED.name
				RETURNING id`, regionID, c.Name, c.Slug).Scan(&cityID)
			if err != nil {
				return res, fmt.Errorf("failed to upsert city %s/%s: %w", r.Slug, c.Slug, err)
			}
			cityIDs[r.Slug+"/"+c.Slug] = [2]int64{regionID, cityID}
			res.Cities++
		}
	}

	for _, v := range f.Venues {
		ids, ok := cityIDs[v.Region+"/"+v.City]
		if !ok {
			return res, fmt.Errorf("venue %s: unknown city %s/%s", v.Slug, v.Region, v.City)
		}
		inserted, err := insertVenue(ctx, tx, v, ids[0], ids[1])
		if err != nil {
			return res, err
		}
		if inserted {
			res.Venues++
		} else {
			res.Skipped++
			s.logger.Info("venue already exists, skipping", zap.String("slug", v.Slug))
		}
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("failed to commit seed: %w", err)
	}
	s.logger.Info("seed applied",
		zap.Int("regions", res.Regions),
		zap.Int("cities", res.Cities),
		zap.Int("venues", res.Venues),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

func insertVenue(ctx context.Context, tx *sql.Tx, v Venue, regionID, cityID int64) (bool, error) {
	name, err := json.Marshal(i18n.Localized(v.Name))
	if err != nil {
		return false, fmt.Errorf("failed to marshal venue name: %w", err)
	}
	var desc []byte
	if len(v.Description) > 0 {
		if desc, err = json.Marshal(i18n.Localized(v.Description)); err != nil {
			return false, fmt.Errorf("failed to marshal venue description: %w", err)
		}
	}
	var hours []byte
	if v.Schedule != nil {
		if hours, err = json.Marshal(v.Schedule); err != nil {
			return false, fmt.Errorf("failed to marshal venue schedule: %w", err)
		}
	}
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO venues (
			id, slug, name, description, category, region_id, city_id, address,
			phone, whatsapp, subscription_plan, schedule, open_time, close_time, tags
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (slug) DO NOTHING`,
		uuid.New(), v.Slug, name, desc, v.Category, regionID, cityID, v.Address,
		v.Phone, v.WhatsApp, v.Plan, hours, nullable(v.OpenTime), nullable(v.CloseTime), pq.Array(tags),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert venue %s: %w", v.Slug, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return n > 0, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
