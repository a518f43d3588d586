package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gitlab.com/dirk.krummacker/contacts-backend/internal/config"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/database"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/logger"
)

// Usage examples on the command line:
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 JWT_SECRET=unused go run main.go
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 JWT_SECRET=unused go run main.go -down -steps=1
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 JWT_SECRET=unused go run main.go -file=../../scripts/users.sql
func main() {
	down := flag.Bool("down", false, "roll back migrations instead of applying them")
	steps := flag.Int("steps", 1, "the number of migrations to roll back")
	filePtr := flag.String("file", "", "an additional sql file to execute after migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		fmt.Println("could not create logger", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Open(database.Options{
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Host:     cfg.DB.Host,
		Name:     cfg.DB.Name,
	})
	if err != nil {
		log.Fatal("could not open database", "error", err)
	}
	defer db.Close()

	if *down {
		n, err := database.Rollback(db.DB, *steps)
		if err != nil {
			log.Fatal("rollback failed", "error", err)
		}
		log.Info("rolled back migrations", "count", n)
		return
	}

	n, err := database.Migrate(db.DB)
	if err != nil {
		log.Fatal("migration failed", "error", err)
	}
	log.Info("applied migrations", "count", n)

	if *filePtr == "" {
		return
	}
	readFile, err := os.Open(*filePtr) // nosemgrep
	if err != nil {
		log.Fatal("could not open sql file", "file", *filePtr, "error", err)
	}
	defer readFile.Close()
	n, err = database.ExecScript(context.Background(), db, readFile)
	if err != nil {
		log.Fatal("sql file failed", "file", *filePtr, "error", err)
	}
	log.Info("executed sql file", "file", *filePtr, "statements", n)
}
