package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/ikkim/gamecatalog-backend/config"
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/internal/app/repository"
	"github.com/ikkim/gamecatalog-backend/internal/storage"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrGameNotFound            = errors.New("game not found")
	ErrGameExists              = errors.New("game with this name and platforms exists")
	ErrInvalidGame             = errors.New("invalid game")
	ErrUnresolvedNames         = errors.New("unresolved catalog names")
	ErrCoverStorageUnavailable = errors.New("cover storage is not configured")
	ErrUnsupportedCoverType    = errors.New("unsupported cover content type")
)

// CoverFolder is the storage prefix for game cover images.
const CoverFolder = "covers"

// UnresolvedNamesError lists, per relation, the names that matched no row.
type UnresolvedNamesError struct {
	Missing map[string][]string
}

func (e *UnresolvedNamesError) Error() string {
	fields := make([]string, 0, len(e.Missing))
	for field := range e.Missing {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Missing[field], ", ")))
	}
	return "Not found " + strings.Join(parts, "; ")
}

func (e *UnresolvedNamesError) Unwrap() error {
	return ErrUnresolvedNames
}

type GameInput struct {
	Name        string
	Price       float64
	Discount    float64
	Description string
	ReleaseDate *model.Date
	Genres      []string
	Developers  []string
	Publishers  []string
	Platforms   []string
}

// GamePatch changes only the non-nil fields. A non-nil list replaces that
// association, an empty one clears it.
type GamePatch struct {
	Name        *string
	Price       *float64
	Discount    *float64
	Description *string
	ReleaseDate *model.Date
	Genres      *[]string
	Developers  *[]string
	Publishers  *[]string
	Platforms   *[]string
}

// CatalogRepositories groups the repositories a game write touches.
type CatalogRepositories struct {
	Games      repository.GameRepository
	Genres     repository.GenreRepository
	Developers repository.NamedRepository[model.Developer]
	Publishers repository.NamedRepository[model.Publisher]
	Platforms  repository.NamedRepository[model.Platform]
}

func (r CatalogRepositories) WithTx(tx *gorm.DB) CatalogRepositories {
	return CatalogRepositories{
		Games:      r.Games.WithTx(tx),
		Genres:     r.Genres.WithTx(tx).(repository.GenreRepository),
		Developers: r.Developers.WithTx(tx),
		Publishers: r.Publishers.WithTx(tx),
		Platforms:  r.Platforms.WithTx(tx),
	}
}

type GameService interface {
	Create(input GameInput) (*model.Game, error)
	GetByID(id uuid.UUID) (*model.Game, error)
	List(skip, limit int) ([]model.Game, error)
	Update(id uuid.UUID, patch GamePatch) (*model.Game, error)
	Delete(id uuid.UUID) error
	// CreateCoverUpload presigns a cover upload and records its public URL on the game.
	CreateCoverUpload(ctx context.Context, id uuid.UUID, filename, contentType string) (*storage.PresignedUpload, error)
}

type gameService struct {
	db      *gorm.DB
	repos   CatalogRepositories
	covers  storage.Storage
	missing config.UnresolvedNamesPolicy
}

// NewGameService builds the game service. covers may be nil when no bucket
// is configured.
func NewGameService(db *gorm.DB, repos CatalogRepositories, covers storage.Storage, missing config.UnresolvedNamesPolicy) GameService {
	return &gameService{
		db:      db,
		repos:   repos,
		covers:  covers,
		missing: missing,
	}
}

func (s *gameService) Create(input GameInput) (*model.Game, error) {
	name, err := cleanName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := validatePricing(input.Price, input.Discount); err != nil {
		return nil, err
	}

	var created *model.Game
	err = s.db.Transaction(func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)

		assoc, err := s.resolve(repos, gameNames{
			genres:     &input.Genres,
			developers: &input.Developers,
			publishers: &input.Publishers,
			platforms:  &input.Platforms,
		})
		if err != nil {
			return err
		}
		if err := ensureUnique(repos.Games, name, assoc.Platforms, uuid.Nil); err != nil {
			return err
		}

		game := &model.Game{
			Name:        name,
			Price:       input.Price,
			Discount:    input.Discount,
			Description: input.Description,
			ReleaseDate: input.ReleaseDate,
			Genres:      assoc.Genres,
			Developers:  assoc.Developers,
			Publishers:  assoc.Publishers,
			Platforms:   assoc.Platforms,
		}
		if err := repos.Games.Create(game); err != nil {
			return err
		}

		created, err = repos.Games.FindByID(game.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Game created", map[string]interface{}{
		"game_id":   created.ID,
		"name":      created.Name,
		"platforms": len(created.Platforms),
	})
	metricCatalogWrites.WithLabelValues("game", "create").Inc()
	return created, nil
}

func (s *gameService) GetByID(id uuid.UUID) (*model.Game, error) {
	game, err := s.repos.Games.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

func (s *gameService) List(skip, limit int) ([]model.Game, error) {
	return s.repos.Games.FindAll(skip, limit)
}

func (s *gameService) Update(id uuid.UUID, patch GamePatch) (*model.Game, error) {
	var updated *model.Game
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)

		game, err := repos.Games.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameNotFound
			}
			return err
		}

		if patch.Name != nil {
			name, err := cleanName(*patch.Name)
			if err != nil {
				return err
			}
			game.Name = name
		}
		if patch.Price != nil {
			game.Price = *patch.Price
		}
		if patch.Discount != nil {
			game.Discount = *patch.Discount
		}
		if patch.Description != nil {
			game.Description = *patch.Description
		}
		if patch.ReleaseDate != nil {
			game.ReleaseDate = patch.ReleaseDate
		}
		if err := validatePricing(game.Price, game.Discount); err != nil {
			return err
		}

		assoc, err := s.resolve(repos, gameNames{
			genres:     patch.Genres,
			developers: patch.Developers,
			publishers: patch.Publishers,
			platforms:  patch.Platforms,
		})
		if err != nil {
			return err
		}

		if patch.Name != nil || patch.Platforms != nil {
			platforms := game.Platforms
			if assoc.Platforms != nil {
				platforms = assoc.Platforms
			}
			if err := ensureUnique(repos.Games, game.Name, platforms, game.ID); err != nil {
				return err
			}
		}

		if err := repos.Games.Update(game, assoc); err != nil {
			return err
		}
		updated, err = repos.Games.FindByID(game.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Game updated", map[string]interface{}{
		"game_id": updated.ID,
	})
	metricCatalogWrites.WithLabelValues("game", "update").Inc()
	return updated, nil
}

func (s *gameService) Delete(id uuid.UUID) error {
	if err := s.repos.Games.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGameNotFound
		}
		return err
	}
	logger.Info("Game deleted", map[string]interface{}{
		"game_id": id,
	})
	metricCatalogWrites.WithLabelValues("game", "delete").Inc()
	return nil
}

func (s *gameService) CreateCoverUpload(ctx context.Context, id uuid.UUID, filename, contentType string) (*storage.PresignedUpload, error) {
	if s.covers == nil {
		return nil, ErrCoverStorageUnavailable
	}
	if err := storage.ValidateContentType(contentType, storage.CoverContentTypes); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCoverType, contentType)
	}
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}

	upload, err := s.covers.PresignUpload(ctx, CoverFolder, filename, contentType)
	if err != nil {
		logger.Error("Failed to presign cover upload", err, map[string]interface{}{
			"game_id": id,
		})
		return nil, err
	}
	if err := s.repos.Games.SetCoverURL(id, upload.FileURL); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	logger.Info("Cover upload prepared", map[string]interface{}{
		"game_id": id,
		"key":     upload.Key,
	})
	return upload, nil
}

// gameNames carries the submitted relation names. A nil pointer means the
// relation was not submitted.
type gameNames struct {
	genres     *[]string
	developers *[]string
	publishers *[]string
	platforms  *[]string
}

func (s *gameService) resolve(repos CatalogRepositories, names gameNames) (repository.GameAssociations, error) {
	var assoc repository.GameAssociations
	missing := map[string][]string{}
	var err error

	if names.genres != nil {
		var lost []string
		assoc.Genres, lost, err = resolveNames(*names.genres, repos.Genres.FindByNames, func(g model.Genre) string { return g.Name })
		if err != nil {
			return assoc, err
		}
		noteMissing(missing, "genres", lost)
	}
	if names.developers != nil {
		var lost []string
		assoc.Developers, lost, err = resolveNames(*names.developers, repos.Developers.FindByNames, func(d model.Developer) string { return d.Name })
		if err != nil {
			return assoc, err
		}
		noteMissing(missing, "developers", lost)
	}
	if names.publishers != nil {
		var lost []string
		assoc.Publishers, lost, err = resolveNames(*names.publishers, repos.Publishers.FindByNames, func(p model.Publisher) string { return p.Name })
		if err != nil {
			return assoc, err
		}
		noteMissing(missing, "publishers", lost)
	}
	if names.platforms != nil {
		var lost []string
		assoc.Platforms, lost, err = resolveNames(*names.platforms, repos.Platforms.FindByNames, func(p model.Platform) string { return p.Name })
		if err != nil {
			return assoc, err
		}
		noteMissing(missing, "platforms", lost)
	}

	if len(missing) == 0 {
		return assoc, nil
	}
	if s.missing == config.UnresolvedReject {
		return assoc, &UnresolvedNamesError{Missing: missing}
	}
	logger.Warn("Dropping unresolved catalog names", map[string]interface{}{
		"missing": missing,
	})
	return assoc, nil
}

// resolveNames looks up the distinct non-blank names and reports the ones
// that matched nothing. The result is never nil.
func resolveNames[T any](names []string, find func([]string) ([]T, error), nameOf func(T) string) ([]T, []string, error) {
	wanted := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		wanted = append(wanted, n)
	}

	found, err := find(wanted)
	if err != nil {
		return nil, nil, err
	}
	if found == nil {
		found = []T{}
	}

	matched := make(map[string]bool, len(found))
	for _, f := range found {
		matched[nameOf(f)] = true
	}
	var missing []string
	for _, n := range wanted {
		if !matched[n] {
			missing = append(missing, n)
		}
	}
	return found, missing, nil
}

func noteMissing(missing map[string][]string, field string, names []string) {
	if len(names) > 0 {
		missing[field] = names
	}
}

// ensureUnique rejects a game whose name and exact platform set already
// belong to another game.
func ensureUnique(games repository.GameRepository, name string, platforms []model.Platform, excludeID uuid.UUID) error {
	candidates, err := games.FindByName(name)
	if err != nil {
		return err
	}

	want := platformSet(platforms)
	for _, c := range candidates {
		if c.ID == excludeID {
			continue
		}
		if samePlatforms(want, platformSet(c.Platforms)) {
			return ErrGameExists
		}
	}
	return nil
}

func platformSet(platforms []model.Platform) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(platforms))
	for _, p := range platforms {
		set[p.ID] = struct{}{}
	}
	return set
}

func samePlatforms(a, b map[uuid.UUID]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

func validatePricing(price, discount float64) error {
	if price <= 0 {
		return fmt.Errorf("%w: price must be greater than 0", ErrInvalidGame)
	}
	if discount < 0 {
		return fmt.Errorf("%w: discount must not be negative", ErrInvalidGame)
	}
	return nil
}
