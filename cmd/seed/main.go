// Command seed provisions a demo organization with a user, a project and a
// couple of generation templates so a fresh environment has data to work
// against.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"framebrew/internal/adapter/repo"
	"framebrew/internal/domain"
	"framebrew/internal/middleware"
)

func main() {
	var (
		orgFlag   string
		emailFlag string
	)
	flag.StringVar(&orgFlag, "org", "Frame Brew Demo", "organization name to create")
	flag.StringVar(&emailFlag, "email", "demo@framebrew.dev", "admin user email")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("connect database: %w", err))
	}
	defer pool.Close()

	store := repo.NewStore(pool)
	now := time.Now().UTC()

	org := &domain.Organization{
		ID:        uuid.NewString(),
		Name:      orgFlag,
		Plan:      "free",
		CreatedAt: now,
	}
	if err := store.Accounts().CreateOrg(ctx, org); err != nil {
		exitWithError(fmt.Errorf("create organization: %w", err))
	}

	user := &domain.User{
		ID:        uuid.NewString(),
		OrgID:     org.ID,
		Email:     emailFlag,
		Name:      "Demo Admin",
		Role:      domain.UserRoleAdmin,
		CreatedAt: now,
	}
	if err := store.Accounts().CreateUser(ctx, user); err != nil {
		exitWithError(fmt.Errorf("create user: %w", err))
	}

	project := &domain.Project{
		ID:          uuid.NewString(),
		OrgID:       org.ID,
		Name:        "Getting Started",
		Description: "Sample project created by the seeder",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.Projects().Create(ctx, project); err != nil {
		exitWithError(fmt.Errorf("create project: %w", err))
	}

	templates := []domain.Template{
		{
			ID:          uuid.NewString(),
			OrgID:       org.ID,
			Name:        "Product demo",
			Prompt:      "Create an engaging product demo highlighting the top three features",
			StylePreset: "clean",
			DurationSec: 15,
			AspectRatio: "16:9",
		},
		{
			ID:          uuid.NewString(),
			OrgID:       org.ID,
			Name:        "Social teaser",
			Prompt:      "A fast-paced vertical teaser with bold captions and an energetic hook",
			StylePreset: "bold",
			DurationSec: 9,
			AspectRatio: "9:16",
		},
	}
	for i := range templates {
		if err := store.Templates().Create(ctx, &templates[i]); err != nil {
			exitWithError(fmt.Errorf("create template %q: %w", templates[i].Name, err))
		}
	}

	fmt.Printf("seeded org=%s user=%s project=%s templates=%d\n", org.ID, user.ID, project.ID, len(templates))

	if secret := strings.TrimSpace(os.Getenv("JWT_SECRET")); secret != "" {
		token, err := middleware.SignJWT(secret, middleware.TokenClaims{
			Sub:   user.ID,
			OrgID: org.ID,
			Role:  string(user.Role),
			Exp:   time.Now().Add(30 * 24 * time.Hour).Unix(),
		})
		if err != nil {
			exitWithError(fmt.Errorf("sign token: %w", err))
		}
		fmt.Printf("dev token: %s\n", token)
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "seed:", err)
	os.Exit(1)
}
