// Command seed-db loads users, restaurants, and menu items from a JSON seed
// file into the database. Plain JSON and gzip-compressed files are supported.
// Seeding is idempotent: users that already exist are skipped by email, and
// restaurant inserts run concurrently.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/gourmet-express/internal/domain/restaurant"
	"github.com/xenking/gourmet-express/internal/domain/user"
	"github.com/xenking/gourmet-express/internal/storage/postgres"
)

type seedFile struct {
	Users       []userJSON       `json:"users"`
	Restaurants []restaurantJSON `json:"restaurants"`
}

type userJSON struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type restaurantJSON struct {
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Address     *string        `json:"address"`
	Menu        []menuItemJSON `json:"menu"`
}

type menuItemJSON struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url"`
	IsAvailable *bool           `json:"is_available"`
}

func main() {
	var (
		databaseURL string
		seedPath    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "db/seed/seed.json", "path to seed JSON file (.json or .json.gz)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, seedPath); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedPath string) error {
	seed, err := readSeedFile(seedPath)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	users := postgres.NewUserRepository(pool)
	restaurants := postgres.NewRestaurantRepository(pool)

	if err := seedUsers(ctx, users, seed.Users); err != nil {
		return errors.Wrap(err, "seed users")
	}

	if err := seedRestaurants(ctx, restaurants, seed.Restaurants); err != nil {
		return errors.Wrap(err, "seed restaurants")
	}

	return nil
}

// readSeedFile reads and parses the seed file, transparently decompressing
// files with a .gz suffix.
func readSeedFile(path string) (*seedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	var seed seedFile
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &seed, nil
}

func seedUsers(ctx context.Context, repo user.Repository, users []userJSON) error {
	slog.Info("seeding users", slog.Int("count", len(users)))

	for _, u := range users {
		role := user.Role(u.Role)
		if u.Role == "" {
			role = user.RoleCustomer
		}
		if !role.IsValid() {
			return errors.Errorf("user %s: invalid role %q", u.Email, u.Role)
		}

		created := &user.User{
			Email: u.Email,
			Name:  u.Name,
			Role:  role,
		}
		if err := repo.Create(ctx, created); err != nil {
			if errors.Is(err, user.ErrEmailExists) {
				slog.Info("user exists, skipping", slog.String("email", u.Email))
				continue
			}
			return errors.Wrapf(err, "create user %s", u.Email)
		}

		slog.Info("created user",
			slog.Int64("id", created.ID),
			slog.String("email", created.Email),
			slog.String("role", string(created.Role)),
		)
	}

	return nil
}

// seedRestaurants inserts each restaurant and its menu in its own goroutine.
func seedRestaurants(ctx context.Context, repo restaurant.Repository, restaurants []restaurantJSON) error {
	slog.Info("seeding restaurants", slog.Int("count", len(restaurants)))

	g, ctx := errgroup.WithContext(ctx)
	for _, rj := range restaurants {
		g.Go(seedOneRestaurant(ctx, repo, rj))
	}
	return g.Wait()
}

func seedOneRestaurant(ctx context.Context, repo restaurant.Repository, rj restaurantJSON) func() error {
	return func() error {
		r := &restaurant.Restaurant{
			Name:        rj.Name,
			Description: rj.Description,
			Address:     rj.Address,
		}
		if err := repo.Create(ctx, r); err != nil {
			return errors.Wrapf(err, "create restaurant %s", rj.Name)
		}

		for _, mj := range rj.Menu {
			available := true
			if mj.IsAvailable != nil {
				available = *mj.IsAvailable
			}
			item := &restaurant.MenuItem{
				RestaurantID: r.ID,
				Name:         mj.Name,
				Description:  mj.Description,
				Price:        mj.Price,
				ImageURL:     mj.ImageURL,
				IsAvailable:  available,
			}
			if err := repo.CreateMenuItem(ctx, item); err != nil {
				return errors.Wrapf(err, "create menu item %s for %s", mj.Name, rj.Name)
			}
		}

		slog.Info("seeded restaurant",
			slog.Int64("id", r.ID),
			slog.String("name", r.Name),
			slog.Int("menu_items", len(rj.Menu)),
		)
		return nil
	}
}
