package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/internal/app/service"
	"github.com/xuri/excelize/v2"
)

// Column headers, matched case-insensitively. Only name and price are required.
const (
	colName        = "name"
	colPrice       = "price"
	colDiscount    = "discount"
	colDescription = "description"
	colReleaseDate = "release_date"
	colGenres      = "genres"
	colDevelopers  = "developers"
	colPublishers  = "publishers"
	colPlatforms   = "platforms"
)

func readGamesFromXLSX(filePath string) ([]service.GameInput, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
		columns[key] = i
	}
	for _, required := range []string{colName, colPrice} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}

	var games []service.GameInput
	skipped := 0
	for i, row := range rows[1:] {
		cell := func(column string) string {
			idx, ok := columns[column]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		game, err := parseGameRow(cell)
		if err != nil {
			// +2: one for the header, one for 1-based numbering
			fmt.Printf("Skipping row %d: %v\n", i+2, err)
			skipped++
			continue
		}
		games = append(games, game)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid games: %d\n", len(games))
	fmt.Printf("  Skipped rows: %d\n", skipped)

	return games, nil
}

func parseGameRow(cell func(string) string) (service.GameInput, error) {
	game := service.GameInput{
		Name:        cell(colName),
		Description: cell(colDescription),
		Genres:      splitNames(cell(colGenres)),
		Developers:  splitNames(cell(colDevelopers)),
		Publishers:  splitNames(cell(colPublishers)),
		Platforms:   splitNames(cell(colPlatforms)),
	}
	if game.Name == "" {
		return game, fmt.Errorf("name is empty")
	}

	price, err := strconv.ParseFloat(cell(colPrice), 64)
	if err != nil || price <= 0 {
		return game, fmt.Errorf("invalid price %q", cell(colPrice))
	}
	game.Price = price

	if raw := cell(colDiscount); raw != "" {
		discount, err := strconv.ParseFloat(raw, 64)
		if err != nil || discount < 0 {
			return game, fmt.Errorf("invalid discount %q", raw)
		}
		game.Discount = discount
	}

	if raw := cell(colReleaseDate); raw != "" {
		date, err := model.ParseDate(raw)
		if err != nil {
			return game, err
		}
		game.ReleaseDate = &date
	}
	return game, nil
}

// splitNames accepts lists separated by semicolons or commas.
func splitNames(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ','
	})
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		if name := strings.TrimSpace(field); name != "" {
			names = append(names, name)
		}
	}
	return names
}
