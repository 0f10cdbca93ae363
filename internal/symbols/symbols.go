package symbols

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load reads a symbol list file: one ticker per line, surrounding
// whitespace stripped, blank lines skipped, uppercased. Order is preserved.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open symbols file: %w", err)
	}
	defer f.Close()

	var list []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		list = append(list, strings.ToUpper(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read symbols file: %w", err)
	}
	return list, nil
}
