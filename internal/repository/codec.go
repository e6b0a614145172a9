package repository

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

const trimSet = " \t\""

// Decode reads the store's line format. Every line with a colon becomes one
// entry; key and value lose surrounding spaces, tabs and double quotes. Lines
// without a colon (the braces) are skipped. Later duplicates win.
func Decode(r io.Reader) (map[string]string, error) {
	data := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		// The writer emits a separating comma after each value but the last.
		value = strings.TrimSuffix(strings.TrimRight(value, " \t\r"), ",")
		data[strings.Trim(key, trimSet)] = strings.Trim(value, trimSet+"\r")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	return data, nil
}

// Encode writes keys in sorted order. Values are not escaped: the format only
// has to carry digit strings, decimal strings, "true"/"false", names and hashes.
func Encode(w io.Writer, data map[string]string) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bw := bufio.NewWriter(w)
	bw.WriteString("{\n")
	for i, k := range keys {
		fmt.Fprintf(bw, "  \"%s\": \"%s\"", k, data[k])
		if i < len(keys)-1 {
			bw.WriteString(",")
		}
		bw.WriteString("\n")
	}
	bw.WriteString("}")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}
