package account

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// readLines читает непустые строки файла, обрезая пробелы.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// LoadKeys читает файл приватных ключей (по одному hex-ключу на строку).
// Любой некорректный ключ — фатальная ошибка.
func LoadKeys(path string) ([]*Key, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	keys := make([]*Key, len(lines))
	for i, line := range lines {
		key, err := ParseKey(line)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		keys[i] = key
	}
	return keys, nil
}

// LoadRecipients читает файл адресов получателей (по одному на строку).
func LoadRecipients(path string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	for i, line := range lines {
		if err := ValidateAddress(line); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
	}
	return lines, nil
}

// ValidateAddress проверяет формат адреса: 0x + 40 hex-символов.
func ValidateAddress(s string) error {
	if !strings.HasPrefix(s, "0x") || len(s) != 42 {
		return fmt.Errorf("%w: %q", ErrMalformedAddress, s)
	}
	if _, err := hex.DecodeString(s[2:]); err != nil {
		return fmt.Errorf("%w: %q", ErrMalformedAddress, s)
	}
	return nil
}

// Load читает оба файла и строит WorkUnits.
func Load(keysPath, recipientsPath string) ([]*WorkUnit, error) {
	keys, err := LoadKeys(keysPath)
	if err != nil {
		return nil, err
	}

	recipients, err := LoadRecipients(recipientsPath)
	if err != nil {
		return nil, err
	}

	return Pair(keys, recipients)
}
