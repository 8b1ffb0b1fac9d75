// Package seed generates demo profiles and trucks for local environments.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/jaswdr/faker"

	"fleet-platform/internal/apperr"
	"fleet-platform/internal/domain"
	"fleet-platform/internal/logx"
)

const maxAttempts = 5

var truckModels = []string{
	"Volvo FH16", "Scania R500", "MAN TGX", "DAF XF", "Mercedes Actros", "Iveco S-Way",
}

type repository interface {
	InsertProfile(ctx context.Context, p *domain.Profile) error
	InsertTruck(ctx context.Context, t *domain.Truck) error
}

// Result counts the rows a Run inserted.
type Result struct {
	Drivers int
	Trucks  int
}

// Seeder inserts faker-generated drivers and trucks.
type Seeder struct {
	repo   repository
	fake   faker.Faker
	logger logx.Logger
}

// New returns a Seeder whose output is reproducible for a given seed.
func New(repo repository, seed int64, logger logx.Logger) *Seeder {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Seeder{
		repo:   repo,
		fake:   faker.NewWithSeed(rand.NewSource(seed)),
		logger: logger,
	}
}

// Run inserts drivers profiles and trucks trucks. Unique-key collisions are
// regenerated a few times before giving up.
func (s *Seeder) Run(ctx context.Context, drivers, trucks int) (Result, error) {
	var res Result
	if drivers < 0 || trucks < 0 {
		return res, apperr.WithReason(apperr.ErrInvalid, "counts must not be negative")
	}

	for i := 0; i < drivers; i++ {
		p, err := s.insertDriver(ctx)
		if err != nil {
			return res, err
		}
		res.Drivers++
		s.logger.Debug("driver seeded",
			logx.String("event", "seed_driver"),
			logx.String("user_id", p.ID),
			logx.String("email", p.Email),
		)
	}

	for i := 0; i < trucks; i++ {
		t, err := s.insertTruck(ctx)
		if err != nil {
			return res, err
		}
		res.Trucks++
		s.logger.Debug("truck seeded",
			logx.String("event", "seed_truck"),
			logx.String("truck_id", t.ID),
			logx.String("plate_number", t.PlateNumber),
		)
	}

	s.logger.Info("seed completed",
		logx.String("event", "seed_completed"),
		logx.Int("drivers", res.Drivers),
		logx.Int("trucks", res.Trucks),
	)
	return res, nil
}

func (s *Seeder) insertDriver(ctx context.Context) (*domain.Profile, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		p := s.Driver()
		err := s.repo.InsertProfile(ctx, &p)
		if err == nil {
			return &p, nil
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("seed driver: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("seed driver after %d attempts: %w", maxAttempts, lastErr)
}

func (s *Seeder) insertTruck(ctx context.Context) (*domain.Truck, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		t := s.Truck()
		err := s.repo.InsertTruck(ctx, &t)
		if err == nil {
			return &t, nil
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("seed truck: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("seed truck after %d attempts: %w", maxAttempts, lastErr)
}

// Driver builds an active driver profile.
func (s *Seeder) Driver() domain.Profile {
	name := s.fake.Person().Name()
	return domain.Profile{
		Email:    fmt.Sprintf("%s.%s@%s", emailLocal(name), s.fake.Lexify("????"), s.fake.Internet().Domain()),
		FullName: name,
		Phone:    s.fake.Phone().Number(),
		Role:     domain.RoleDriver,
		Status:   domain.ProfileActive,
	}
}

// Truck builds an available truck with a random plate.
func (s *Seeder) Truck() domain.Truck {
	return domain.Truck{
		PlateNumber: strings.ToUpper(s.fake.Bothify("???-####")),
		Model:       s.fake.RandomStringElement(truckModels),
		Capacity:    float64(s.fake.IntBetween(5, 40) * 1000),
		Status:      domain.TruckAvailable,
	}
}

// emailLocal turns "Dr. Jane O'Neil" into "dr.jane.oneil".
func emailLocal(name string) string {
	parts := make([]string, 0, 3)
	for _, f := range strings.Fields(strings.ToLower(name)) {
		f = strings.Map(func(r rune) rune {
			if r >= 'a' && r <= 'z' {
				return r
			}
			return -1
		}, f)
		if f != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		return "driver"
	}
	return strings.Join(parts, ".")
}
