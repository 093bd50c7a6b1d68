package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/hsh-clinic/clinic-backend/internal/database"
	"github.com/hsh-clinic/clinic-backend/internal/logger"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/repository"
	"github.com/hsh-clinic/clinic-backend/internal/service"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

const minPasswordLen = 8

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	domains, err := service.NewDomainMap(cfg.LoginDomains)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid LOGIN_DOMAINS")
	}

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	superAdmins := repository.NewSuperAdminRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Super Admin ===")

	name := prompt(reader, "Enter Name: ")
	if len(name) < 3 {
		fmt.Println("Error: Name must be at least 3 characters")
		os.Exit(1)
	}

	email := strings.ToLower(prompt(reader, "Enter Email: "))
	class, err := domains.ResolveIdentityClass(email)
	if err != nil || class != model.ClassSuperAdmin {
		fmt.Printf("Error: %q is not a super admin login domain\n", email)
		os.Exit(1)
	}

	password := readPassword("Enter Password: ")
	if len(password) < minPasswordLen {
		fmt.Printf("Error: Password must be at least %d characters\n", minPasswordLen)
		os.Exit(1)
	}
	if readPassword("Repeat Password: ") != password {
		fmt.Println("Error: Passwords do not match")
		os.Exit(1)
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	sa := &model.SuperAdmin{Name: name, Email: email, PasswordHash: string(hash)}
	if err := superAdmins.Create(ctx, sa); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			fmt.Printf("Error: a super admin with email %s already exists\n", email)
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Failed to create super admin")
	}

	fmt.Printf("\nSuccess! Super admin '%s' (%s) created with ID: %d\n", sa.Name, sa.Email, sa.ID)
	fmt.Println("The first login sends a confirmation link to this address.")
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

func readPassword(label string) string {
	fmt.Print(label)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		os.Exit(1)
	}
	return string(b)
}
