// cmd/seed/main.go
//
// Seeds an initial admin account so a fresh deployment has someone who can
// reach the admin endpoints.
package main

import (
	"flag"
	"log"

	"secure-auth-api/config"
	"secure-auth-api/db"
	"secure-auth-api/logger"
	"secure-auth-api/model"
	"secure-auth-api/repository"
	"secure-auth-api/service"
)

func main() {
	email := flag.String("email", "", "email address for the admin account")
	password := flag.String("password", "", "password for the admin account")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	config.LoadConfig(".")
	logger.Init()

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	userRepo := repository.NewUserRepository(database)

	existing, err := userRepo.GetUserByEmail(*email)
	if err != nil {
		logger.Log.Fatalf("Error checking for existing user: %v", err)
	}
	if existing != nil {
		logger.Log.Fatalf("User %s already exists", *email)
	}

	hashedPassword, err := service.HashPassword(*password)
	if err != nil {
		logger.Log.Fatalf("Error hashing password: %v", err)
	}

	admin := &model.User{
		Email:    *email,
		Password: hashedPassword,
		Role:     string(model.RoleAdmin),
		IsActive: true,
	}
	if err := userRepo.CreateUser(admin); err != nil {
		logger.Log.Fatalf("Error creating admin user: %v", err)
	}

	logger.Log.WithField("user_id", admin.ID).Info("Admin user created")
}
