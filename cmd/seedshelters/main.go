// Command seedshelters loads shelter records from a CSV file into the
// SQLite shelter store the service reads at request time.
//
// Expected CSV header:
//
//	Name,Address,Lat,Lon,CapacityTotal,CapacityCurrent,AcceptsPets,ADAAccessible,Status
//
// Usage:
//
//	go run ./cmd/seedshelters -csv data/shelters.csv -db data/shelters.db
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/storm-threat-service/internal/domain"
	"github.com/couchcryptid/storm-threat-service/internal/shelter"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "path to the shelter CSV file")
	dbPath := flag.String("db", "data/shelters.db", "path to the shelter SQLite database")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -csv")
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", *csvPath, err)
	}
	defer f.Close()

	store, err := shelter.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	ctx := context.Background()
	loaded, skipped := 0, 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}

		sh, ok := parseRow(col, row)
		if !ok {
			skipped++
			continue
		}
		if err := store.Upsert(ctx, sh); err != nil {
			return err
		}
		loaded++
	}

	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	log.Printf("loaded %d shelters (%d rows skipped), store now holds %d", loaded, skipped, total)
	return nil
}

// parseRow converts one CSV row into a shelter record. Rows without a
// usable name or coordinates are skipped.
func parseRow(col map[string]int, row []string) (domain.Shelter, bool) {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	name := get("Name")
	lat, errLat := strconv.ParseFloat(get("Lat"), 64)
	lon, errLon := strconv.ParseFloat(get("Lon"), 64)
	if name == "" || errLat != nil || errLon != nil {
		return domain.Shelter{}, false
	}

	status := strings.ToLower(get("Status"))
	if status == "" {
		status = "open"
	}

	return domain.Shelter{
		Name:            name,
		Address:         get("Address"),
		Lat:             lat,
		Lon:             lon,
		CapacityTotal:   parseOptionalInt(get("CapacityTotal")),
		CapacityCurrent: parseOptionalInt(get("CapacityCurrent")),
		AcceptsPets:     parseBool(get("AcceptsPets")),
		ADAAccessible:   parseBool(get("ADAAccessible")),
		Status:          status,
	}, true
}

func parseOptionalInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "1", "y":
		return true
	default:
		return false
	}
}
