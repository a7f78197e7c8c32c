package catalog

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/verte-zerg/qrhunt/internal/model"
)

// LoadFile reads a catalog with one "Name points" entry per line.
// Blank lines and lines starting with '#' are skipped.
func LoadFile(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only catalog.
			_ = cerr
		}
	}()

	var entities []model.Entity
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"name points\", got %q", lineNo, line)
		}
		points, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid points %q", lineNo, fields[1])
		}
		entities = append(entities, model.Entity{Name: fields[0], Points: points})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("catalog file is empty")
	}
	return New(entities)
}
