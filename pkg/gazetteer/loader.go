package gazetteer

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// columnAliases maps accepted header spellings to canonical column roles.
// The source header decides positions; only the roles below are consumed.
var columnAliases = map[string]string{
	"name":            "name",
	"alt_name":        "aliases",
	"alt_names":       "aliases",
	"aliases":         "aliases",
	"alternatenames":  "aliases",
	"alternate_names": "aliases",
	"lat":             "lat",
	"latitude":        "lat",
	"long":            "lon",
	"lng":             "lon",
	"lon":             "lon",
	"longitude":       "lon",
	"pop":             "population",
	"population":      "population",
	"country":         "country",
	"country_code":    "country",
	"admin1":          "region",
	"region":          "region",
	"admin_region":    "region",
}

// columnSet holds resolved field positions for one source file.
type columnSet struct {
	name       int
	aliases    int
	lat        int
	lon        int
	population int
	country    int
	region     int
	width      int // minimum field count a usable row needs
}

func resolveColumns(header string) (columnSet, error) {
	cols := columnSet{name: -1, aliases: -1, lat: -1, lon: -1, population: -1, country: -1, region: -1}

	for i, field := range strings.Split(header, "\t") {
		role, ok := columnAliases[strings.ToLower(strings.TrimSpace(field))]
		if !ok {
			continue
		}
		switch role {
		case "name":
			cols.name = i
		case "aliases":
			cols.aliases = i
		case "lat":
			cols.lat = i
		case "lon":
			cols.lon = i
		case "population":
			cols.population = i
		case "country":
			cols.country = i
		case "region":
			cols.region = i
		}
	}

	missing := []string{}
	for role, idx := range map[string]int{
		"name": cols.name, "aliases": cols.aliases, "latitude": cols.lat,
		"longitude": cols.lon, "population": cols.population,
		"country": cols.country, "admin region": cols.region,
	} {
		if idx < 0 {
			missing = append(missing, role)
		}
		if idx >= cols.width {
			cols.width = idx + 1
		}
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("header is missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// Load reads a tab-delimited place file and returns the immutable Gazetteer.
//
// The first line must be a header naming the columns. Malformed data rows
// (empty name, unparseable or out-of-range coordinates) are skipped with a
// warning; an unreadable file or unusable header fails the whole load and the
// caller must not start serving.
func Load(path string) (*Gazetteer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening gazetteer source %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading gazetteer header: %w", err)
		}
		return nil, fmt.Errorf("gazetteer source %s is empty", path)
	}

	cols, err := resolveColumns(scanner.Text())
	if err != nil {
		return nil, fmt.Errorf("gazetteer source %s: %w", path, err)
	}

	g := &Gazetteer{}
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		place, reason := parseRow(line, cols)
		if reason != "" {
			g.skipped++
			log.Warnf("Skipping gazetteer row %d: %s", lineNo, reason)
			continue
		}
		g.places = append(g.places, place)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading gazetteer source %s: %w", path, err)
	}

	g.buildIndex()
	log.Debugf("Gazetteer loaded: %d places, %d rows skipped", len(g.places), g.skipped)
	return g, nil
}

// parseRow validates one data row. A non-empty reason means skip the row.
func parseRow(line string, cols columnSet) (Place, string) {
	fields := strings.Split(line, "\t")
	if len(fields) < cols.width {
		return Place{}, fmt.Sprintf("expected at least %d columns, got %d", cols.width, len(fields))
	}

	name := strings.TrimSpace(fields[cols.name])
	if name == "" {
		return Place{}, "empty name"
	}

	lat, errLat := strconv.ParseFloat(strings.TrimSpace(fields[cols.lat]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(fields[cols.lon]), 64)
	if errLat != nil || errLon != nil {
		return Place{}, fmt.Sprintf("non-numeric coordinates for %q", name)
	}
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Place{}, fmt.Sprintf("coordinates out of range for %q: %v, %v", name, lat, lon)
	}

	// Population of 0 means unknown; negative or garbage collapses to 0.
	pop, errPop := strconv.ParseInt(strings.TrimSpace(fields[cols.population]), 10, 64)
	if errPop != nil || pop < 0 {
		pop = 0
	}

	var aliases []string
	for _, raw := range strings.Split(fields[cols.aliases], ",") {
		if alias := strings.TrimSpace(raw); alias != "" {
			aliases = append(aliases, alias)
		}
	}

	return Place{
		Name:        name,
		Aliases:     aliases,
		Latitude:    lat,
		Longitude:   lon,
		Population:  pop,
		CountryCode: strings.TrimSpace(fields[cols.country]),
		AdminRegion: strings.TrimSpace(fields[cols.region]),
	}, ""
}
