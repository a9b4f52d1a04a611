package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/mohagy/roulette-sub003/internal/models"
	mongorepo "github.com/mohagy/roulette-sub003/internal/repositories/mongodb"
	"github.com/mohagy/roulette-sub003/pkg/mongodb"
)

// Seeds an operator account so the console has a login to start from.
// Usage: seed_operator <username> <password> [role]
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is required")
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "roulette-engine"
	}

	if len(os.Args) < 3 {
		log.Fatal("Usage: seed_operator <username> <password> [role]")
	}
	username, password := os.Args[1], os.Args[2]
	role := "operator"
	if len(os.Args) > 3 {
		role = os.Args[3]
	}

	client, err := mongodb.NewClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	repo := mongorepo.NewOperatorRepository(client.Database(dbName))
	operator := &models.Operator{
		Username: username,
		Password: string(hash),
		Role:     role,
	}
	if err := repo.Create(context.Background(), operator); err != nil {
		if errors.Is(err, models.ErrConflict) {
			log.Fatalf("Operator %q already exists", username)
		}
		log.Fatalf("Failed to create operator: %v", err)
	}

	log.Printf("Operator %q created with role %q", username, role)
}
