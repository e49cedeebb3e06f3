// Herramienta de migraciones de esquema sobre golang-migrate.
package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/aajcs/backend-taller-template-web-sub003/pkg/config"
	"github.com/aajcs/backend-taller-template-web-sub003/pkg/logger"
)

// pgxURL reescribe el esquema de la URL al que registra el driver pgx/v5 de
// golang-migrate ("pgx5://"), el mismo stack pgx que usa el resto del módulo.
func pgxURL(dsn string) string {
	if rest, ok := strings.CutPrefix(dsn, "postgresql://"); ok {
		return "pgx5://" + rest
	}
	if rest, ok := strings.CutPrefix(dsn, "postgres://"); ok {
		return "pgx5://" + rest
	}
	return dsn
}

func main() {
	var (
		action = flag.String("action", "up", "Acción: up, down, version, force")
		steps  = flag.Int("steps", 1, "Pasos para down")
		target = flag.Uint("target", 0, "Versión destino para force")
		dir    = flag.String("dir", "migrations", "Directorio de migraciones")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")

	m, err := migrate.New("file://"+*dir, pgxURL(cfg.DB.ConnectionString()))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir migraciones")
	}
	defer m.Close()

	switch *action {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-*steps)
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil {
			log.Fatal().Err(verr).Msg("leer versión")
		}
		fmt.Printf("version=%d dirty=%v\n", version, dirty)
		return
	case "force":
		err = m.Force(int(*target))
	default:
		log.Fatal().Str("action", *action).Msg("acción desconocida")
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Str("action", *action).Msg("migración fallida")
	}
	log.Info().Str("action", *action).Msg("migración completada")
}
