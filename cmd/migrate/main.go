package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/gustavolopes/lojify/internal/pkg/env"
)

func main() {
	env.SetupEnvFile()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]

	dbURL := fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		env.GetEnv("DB_USER", "lojify"),
		env.GetEnv("DB_PASSWORD", "lojify"),
		env.GetEnv("DB_HOST", "db"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", "lojify_db"),
	)

	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		log.Fatalf("falha ao inicializar migrações: %v", err)
	}
	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			log.Printf("falha ao fechar recursos de migração: %v, %v", sourceErr, dbErr)
		}
	}()

	switch command {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("falha ao aplicar migrações: %v", err)
		}
		log.Println("migrações aplicadas")
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			if v, err := strconv.Atoi(os.Args[2]); err == nil {
				steps = v
			}
		}
		if err := m.Steps(-steps); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("falha ao reverter migrações: %v", err)
		}
		log.Printf("%d migração(ões) revertida(s)", steps)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("falha ao ler versão: %v", err)
		}
		log.Printf("versão atual: %d (dirty: %v)", version, dirty)
	case "force":
		if len(os.Args) < 3 {
			log.Fatal("uso: migrate force <versão>")
		}
		v, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("versão inválida: %v", err)
		}
		if err := m.Force(v); err != nil {
			log.Fatalf("falha ao forçar versão: %v", err)
		}
		log.Printf("versão forçada para %d", v)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("uso: migrate <comando>")
	fmt.Println("comandos:")
	fmt.Println("  up              aplica todas as migrações pendentes")
	fmt.Println("  down [n]        reverte n migrações (padrão 1)")
	fmt.Println("  version         mostra a versão atual")
	fmt.Println("  force <versão>  força a versão sem executar migrações")
}
