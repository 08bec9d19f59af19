package main

import (
	"errors"
	"fmt"

	"github.com/ikkim/gamecatalog-backend/config"
	"github.com/ikkim/gamecatalog-backend/internal/app/repository"
	"github.com/ikkim/gamecatalog-backend/internal/app/service"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
	"github.com/ikkim/gamecatalog-backend/pkg/util"
	"gorm.io/gorm"
)

type importSummary struct {
	GamesCreated   int
	GamesSkipped   int
	CatalogCreated int
}

// importer creates the genres, companies and platforms a sheet mentions and
// then the games themselves, going through the same services as the API.
type importer struct {
	genres     service.GenreService
	developers service.DeveloperService
	publishers service.PublisherService
	platforms  service.PlatformService
	games      service.GameService
}

func newImporter(conn *gorm.DB) *importer {
	repos := service.CatalogRepositories{
		Games:      repository.NewGameRepository(conn),
		Genres:     repository.NewGenreRepository(conn),
		Developers: repository.NewDeveloperRepository(conn),
		Publishers: repository.NewPublisherRepository(conn),
		Platforms:  repository.NewPlatformRepository(conn),
	}
	return &importer{
		genres:     service.NewGenreService(repos.Genres),
		developers: service.NewDeveloperService(repos.Developers),
		publishers: service.NewPublisherService(repos.Publishers),
		platforms:  service.NewPlatformService(repos.Platforms),
		// every referenced name is created first, so nothing can be dropped
		games: service.NewGameService(conn, repos, nil, config.UnresolvedReject),
	}
}

func (im *importer) Import(games []service.GameInput) (importSummary, error) {
	var summary importSummary

	seen := make(map[string]bool)
	ensure := func(kind, name string, create func(string) error) error {
		key := kind + "|" + name
		if seen[key] {
			return nil
		}
		seen[key] = true

		err := create(name)
		switch {
		case err == nil:
			summary.CatalogCreated++
			return nil
		case errors.Is(err, service.ErrCatalogNameExists):
			return nil
		default:
			return fmt.Errorf("create %s %q: %w", kind, name, err)
		}
	}

	// Genres are unique by slug as well as by name, so a sheet spelling can
	// land on a genre stored under another name. genreNames maps the sheet
	// spelling to the stored one.
	genreNames := make(map[string]string)
	genreName := func(name string) (string, error) {
		if stored, ok := genreNames[name]; ok {
			return stored, nil
		}

		stored := name
		_, err := im.genres.Create(service.GenreInput{Name: name})
		switch {
		case err == nil:
			summary.CatalogCreated++
		case errors.Is(err, service.ErrCatalogNameExists):
			existing, lerr := im.genres.GetBySlug(util.Slugify(name))
			switch {
			case lerr == nil:
				stored = existing.Name
			case !errors.Is(lerr, service.ErrCatalogNotFound):
				return "", fmt.Errorf("look up genre %q: %w", name, lerr)
			}
		default:
			return "", fmt.Errorf("create genre %q: %w", name, err)
		}

		if stored != name {
			logger.Info("Sheet genre matched an existing genre by slug", logger.Fields{
				"sheet_name":  name,
				"stored_name": stored,
			})
		}
		genreNames[name] = stored
		return stored, nil
	}

	for _, game := range games {
		genres := make([]string, 0, len(game.Genres))
		for _, name := range game.Genres {
			stored, err := genreName(name)
			if err != nil {
				return summary, err
			}
			genres = append(genres, stored)
		}
		game.Genres = genres
		for _, name := range game.Developers {
			if err := ensure("developer", name, func(n string) error {
				_, err := im.developers.Create(service.CompanyInput{Name: n})
				return err
			}); err != nil {
				return summary, err
			}
		}
		for _, name := range game.Publishers {
			if err := ensure("publisher", name, func(n string) error {
				_, err := im.publishers.Create(service.CompanyInput{Name: n})
				return err
			}); err != nil {
				return summary, err
			}
		}
		for _, name := range game.Platforms {
			if err := ensure("platform", name, func(n string) error {
				_, err := im.platforms.Create(n)
				return err
			}); err != nil {
				return summary, err
			}
		}

		_, err := im.games.Create(game)
		switch {
		case err == nil:
			summary.GamesCreated++
		case errors.Is(err, service.ErrGameExists):
			summary.GamesSkipped++
		default:
			return summary, fmt.Errorf("create game %q: %w", game.Name, err)
		}
	}
	return summary, nil
}
