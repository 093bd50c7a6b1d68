package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/hsh-clinic/clinic-backend/internal/database"
	"github.com/hsh-clinic/clinic-backend/internal/logger"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/repository"
)

// defaults is used when no -file is given. Keys are reference slugs.
var defaults = map[string][]string{
	model.KindLevel.Slug:       {"First", "Second", "Third", "Fourth", "Fifth", "Sixth", "Postgraduate"},
	model.KindNationality.Slug: {"Egyptian", "Sudanese", "Syrian", "Palestinian", "Yemeni", "Other"},
	model.KindFaculty.Slug: {
		"Engineering", "Medicine", "Pharmacy", "Nursing", "Science", "Commerce",
		"Law", "Arts", "Education", "Computers and Artificial Intelligence",
		"Fine Arts", "Applied Arts", "Physical Education", "Social Work", "Tourism and Hotels",
	},
	model.KindGovernorate.Slug: {
		"Cairo", "Giza", "Alexandria", "Qalyubia", "Sharqia", "Dakahlia", "Gharbia",
		"Monufia", "Beheira", "Kafr El Sheikh", "Damietta", "Port Said", "Ismailia",
		"Suez", "Faiyum", "Beni Suef", "Minya", "Asyut", "Sohag", "Qena", "Luxor",
		"Aswan", "Red Sea", "New Valley", "Matrouh", "North Sinai", "South Sinai",
	},
	model.KindClinic.Slug: {
		"Internal Medicine", "Dental", "Ophthalmology", "Dermatology", "ENT",
		"Orthopedics", "Psychiatry", "Physiotherapy", "Gynecology", "Laboratory",
	},
	model.KindHospital.Slug: {"Badr University Hospital", "Helwan General Hospital"},
}

func main() {
	var file string
	flag.StringVar(&file, "file", "", "JSON file mapping reference slugs to names (defaults built in)")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	data := defaults
	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("Failed to read seed file")
		}
		data = map[string][]string{}
		if err := json.Unmarshal(raw, &data); err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("Invalid seed file")
		}
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	refs := repository.NewReferenceRepository(pool)

	fmt.Println("=== Seeding reference data ===")

	for _, kind := range model.ReferenceKinds {
		names, ok := data[kind.Slug]
		if !ok {
			continue
		}
		created, skipped := 0, 0
		for _, name := range names {
			if _, err := refs.Create(ctx, kind, name); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					skipped++
					continue
				}
				log.Fatal().Err(err).Str("kind", kind.Slug).Str("name", name).Msg("Failed to seed reference row")
			}
			created++
		}
		fmt.Printf("%-14s created %3d, already present %3d\n", kind.Slug, created, skipped)
	}

	for slug := range data {
		if !knownSlug(slug) {
			log.Warn().Str("kind", slug).Msg("Ignoring unknown reference kind")
		}
	}
}

func knownSlug(slug string) bool {
	for _, k := range model.ReferenceKinds {
		if k.Slug == slug {
			return true
		}
	}
	return false
}
