package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ikkim/gamecatalog-backend/config"
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/internal/app/repository"
	"github.com/ikkim/gamecatalog-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) PresignUpload(ctx context.Context, folder, filename, contentType string) (*storage.PresignedUpload, error) {
	args := m.Called(ctx, folder, filename, contentType)
	if upload, ok := args.Get(0).(*storage.PresignedUpload); ok {
		return upload, args.Error(1)
	}
	return nil, args.Error(1)
}

type gameFixture struct {
	db     *gorm.DB
	repos  CatalogRepositories
	games  GameService
	covers *mockStorage
	genre  *model.Genre
	pc     *model.Platform
	ps5    *model.Platform
	valve  *model.Publisher
	remedy *model.Developer
}

func setupGameServiceTest(t *testing.T, policy config.UnresolvedNamesPolicy) *gameFixture {
	testDB := setupTestDB(t)
	repos := CatalogRepositories{
		Games:      repository.NewGameRepository(testDB),
		Genres:     repository.NewGenreRepository(testDB),
		Developers: repository.NewDeveloperRepository(testDB),
		Publishers: repository.NewPublisherRepository(testDB),
		Platforms:  repository.NewPlatformRepository(testDB),
	}
	covers := &mockStorage{}

	f := &gameFixture{
		db:     testDB,
		repos:  repos,
		games:  NewGameService(testDB, repos, covers, policy),
		covers: covers,
		genre:  &model.Genre{Name: "Puzzle"},
		pc:     &model.Platform{Name: "PC"},
		ps5:    &model.Platform{Name: "PlayStation 5"},
		valve:  &model.Publisher{Name: "Valve"},
		remedy: &model.Developer{Name: "Remedy"},
	}
	require.NoError(t, repos.Genres.Create(f.genre))
	require.NoError(t, repos.Platforms.Create(f.pc))
	require.NoError(t, repos.Platforms.Create(f.ps5))
	require.NoError(t, repos.Publishers.Create(f.valve))
	require.NoError(t, repos.Developers.Create(f.remedy))
	return f
}

func portalInput(platforms ...string) GameInput {
	return GameInput{
		Name:       "Portal",
		Price:      19.99,
		Genres:     []string{"Puzzle"},
		Publishers: []string{"Valve"},
		Platforms:  platforms,
	}
}

func TestGameService_Create(t *testing.T) {
	f := setupGameServiceTest(t, config.UnresolvedDrop)

	date := model.NewDate(2007, 10, 10)
	input := portalInput("PC")
	input.ReleaseDate = &date
	input.Developers = []string{"Remedy", "Remedy"}

	game, err := f.games.Create(input)
	require.NoError(t, err)
	assert.Equal(t, "Portal", game.Name)
	assert.Equal(t, 0.0, game.Discount)
	require.NotNil(t, game.ReleaseDate)
	assert.Equal(t, "2007-10-10", game.ReleaseDate.String())
	require.Len(t, game.Genres, 1)
	assert.Equal(t, f.genre.ID, game.Genres[0].ID)
	require.Len(t, game.Developers, 1, "duplicate names resolve once")
	require.Len(t, game.Publishers, 1)
	require.Len(t, game.Platforms, 1)
	assert.Equal(t, f.pc.ID, game.Platforms[0].ID)
}

func TestGameService_CreateDropsUnknownNames(t *testing.T) {
	f := setupGameServiceTest(t, config.UnresolvedDrop)

	game, err := f.games.Create(GameInput{
		Name:   "Limbo",
		Price:  9.99,
		Genres: []string{"nonexistent-genre"},
	})
	require.NoError(t, err)
	assert.Empty(t, game.Genres)
}

func TestGameService_CreateRejectsUnknownNames(t *testing.T) {
	f := setupGameServiceTest(t, config.UnresolvedReject)

	_, err := f.games.Create(GameInput{
		Name:      "Limbo",
		Price:     9.99,
		Genres:    []string{"Puzzle", "Platformer"},
		Platforms: []string{"Dreamcast"},
	})
	require.ErrorIs(t, err, ErrUnresolvedNames)

	var unresolved *UnresolvedNamesError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, []string{"Platformer"}, unresolved.Missing["genres"])
	assert.Equal(t, []string{"Dreamcast"}, unresolved.Missing["platforms"])
	assert.Equal(t, "Not found genres: Platformer; platforms: Dreamcast", unresolved.Error())

	list, err := f.games.List(0, 10)
	require.NoError(t, err)
	assert.Empty(t, list, "rejected create writes nothing")
}

func TestGameService_CreateValidation(t *testing.T) {
	f := setupGameServiceTest(t, config.UnresolvedDrop)

	_, err := f.games.Create(GameInput{Name: "Free", Price: 0})
	assert.ErrorIs(t, err, ErrInvalidGame)

	_, err = f.games.Create(GameInput{Name: "Odd", Price: 10, Discount: -1})
	assert.ErrorIs(t, err, ErrInvalidGame)

	_, err = f.games.Create(GameInput{Name: " ", Price: 10})
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestGameService_DuplicateRule(t *testing.T) {
	f := setupGameServiceTest(t, config.UnresolvedDrop)

	_, err := f.games.Create(portalInput("PC"))
	require.NoError(t, err)

	tests := []struct {
		name      string
		platforms []string
		wantErr   error
	}{
		{name: "Same name and platforms", platforms: []string{"PC"}, wantErr: ErrGameExists},
		{name: "Same name other platform", platforms: []string{"PlayStation 5"}},
		{name: "Same name superset of platforms", platforms: []string{"PC", "PlayStation 5"}},
		{name: "Same name no platforms", platforms: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.games.Create(portalInput(tt.platforms...))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGameService_Update(t *testing.T) {
	f := setupGameServiceTest(t, config.UnresolvedDrop)

	game, err := f.games.Create(portalInput("PC"))
	require.NoError(t, err)

	t.Run("Scalars only", func(t *testing.T) {
		price := 4.99
		discount := 50.0
		updated, err := f.games.Update(game.ID, GamePatch{Price: &price, Discount: &discount})
		require.NoError(t, err)
		assert.Equal(t, 4.99, updated.Price)
		assert.Equal(t, 50.0, updated.Discount)
		assert.Len(t, updated.Genres, 1, "absent lists are untouched")
		assert.Len(t, updated.Platforms, 1)
	})

	t.Run("Replace platforms and clear genres", func(t *testing.T) {
		platforms := []string{"PlayStation 5"}
		genres := []string{}
		updated, err := f.games.Update(game.ID, GamePatch{Platforms: &platforms, Genres: &genres})
		require.NoError(t, err)
		require.Len(t, updated.Platforms, 1)
		assert.Equal(t, f.ps5.ID, updated.Platforms[0].ID)
		assert.Empty(t, updated.Genres)
		assert.Len(t, updated.Publishers, 1)
	})

	t.Run("Patch into an existing duplicate", func(t *testing.T) {
		other, err := f.games.Create(GameInput{Name: "Portal 2", Price: 29.99, Platforms: []string{"PlayStation 5"}})
		require.NoError(t, err)

		name := "Portal"
		_, err = f.games.Update(other.ID, GamePatch{Name: &name})
		assert.ErrorIs(t, err, ErrGameExists)

		stored, err := f.games.GetByID(other.ID)
		require.NoError(t, err)
		assert.Equal(t, "Portal 2", stored.Name, "failed patch rolls back")
	})

	t.Run("Invalid price", func(t *testing.T) {
		price := -1.0
		_, err := f.games.Update(game.ID, GamePatch{Price: &price})
		assert.ErrorIs(t, err, ErrInvalidGame)
	})

	t.Run("Unknown game", func(t *testing.T) {
		_, err := f.games.Update(uuid.New(), GamePatch{})
		assert.ErrorIs(t, err, ErrGameNotFound)
	})
}

func TestGameService_DeleteKeepsCatalog(t *testing.T) {
	f := setupGameServiceTest(t, config.UnresolvedDrop)

	game, err := f.games.Create(portalInput("PC"))
	require.NoError(t, err)

	require.NoError(t, f.games.Delete(game.ID))
	_, err = f.games.GetByID(game.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.ErrorIs(t, f.games.Delete(game.ID), ErrGameNotFound)

	_, err = f.repos.Genres.FindByID(f.genre.ID)
	assert.NoError(t, err)
	_, err = f.repos.Platforms.FindByID(f.pc.ID)
	assert.NoError(t, err)
}

func TestGameService_GenreDeleteKeepsGame(t *testing.T) {
	f := setupGameServiceTest(t, config.UnresolvedDrop)
	genres := NewGenreService(f.repos.Genres)

	game, err := f.games.Create(portalInput("PC"))
	require.NoError(t, err)

	require.NoError(t, genres.Delete(f.genre.ID))

	stored, err := f.games.GetByID(game.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Genres)
}

func TestGameService_CreateCoverUpload(t *testing.T) {
	f := setupGameServiceTest(t, config.UnresolvedDrop)
	game, err := f.games.Create(portalInput("PC"))
	require.NoError(t, err)

	upload := &storage.PresignedUpload{
		UploadURL: "https://bucket.example.com/covers/abc.png?sig=1",
		FileURL:   "https://cdn.example.com/covers/abc.png",
		Key:       "covers/abc.png",
	}
	f.covers.On("PresignUpload", mock.Anything, CoverFolder, "portal.png", "image/png").Return(upload, nil).Once()

	got, err := f.games.CreateCoverUpload(context.Background(), game.ID, "portal.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, upload.UploadURL, got.UploadURL)

	stored, err := f.games.GetByID(game.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CoverURL)
	assert.Equal(t, upload.FileURL, *stored.CoverURL)

	_, err = f.games.CreateCoverUpload(context.Background(), game.ID, "portal.gif", "image/gif")
	assert.ErrorIs(t, err, ErrUnsupportedCoverType)

	_, err = f.games.CreateCoverUpload(context.Background(), uuid.New(), "x.png", "image/png")
	assert.ErrorIs(t, err, ErrGameNotFound)

	f.covers.AssertExpectations(t)
}

func TestGameService_CoverUploadWithoutStorage(t *testing.T) {
	testDB := setupTestDB(t)
	repos := CatalogRepositories{
		Games:      repository.NewGameRepository(testDB),
		Genres:     repository.NewGenreRepository(testDB),
		Developers: repository.NewDeveloperRepository(testDB),
		Publishers: repository.NewPublisherRepository(testDB),
		Platforms:  repository.NewPlatformRepository(testDB),
	}
	games := NewGameService(testDB, repos, nil, config.UnresolvedDrop)

	_, err := games.CreateCoverUpload(context.Background(), uuid.New(), "x.png", "image/png")
	assert.ErrorIs(t, err, ErrCoverStorageUnavailable)
}
