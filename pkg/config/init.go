package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Init scaffolds a .lv/config.yaml with the default configuration in dir
// (the working directory when dir is empty) and makes sure the .lv directory
// is covered by the project's .gitignore. Init refuses to overwrite an
// existing config file.
func Init(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}

	lvDir := filepath.Join(dir, ".lv")
	if err := os.MkdirAll(lvDir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(lvDir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path, os.ErrExist
	}

	defaults := DefaultConfig()
	data, err := yaml.Marshal(&defaults)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}

	if err := ensureIgnored(dir); err != nil {
		return "", err
	}
	return path, nil
}

// ensureIgnored adds ".lv/" to the project's .gitignore so per-project lv
// settings stay out of version control. Idempotent: it creates the file when
// missing and leaves it alone when a covering pattern is already present.
func ensureIgnored(projectDir string) error {
	gitignorePath := filepath.Join(projectDir, ".gitignore")

	covered, err := hasIgnorePattern(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if covered {
		return nil
	}
	return appendIgnorePattern(gitignorePath, ".lv/")
}

// hasIgnorePattern reports whether the .gitignore already covers the .lv
// directory under any of its usual spellings.
func hasIgnorePattern(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch strings.TrimPrefix(line, "/") {
		case ".lv", ".lv/", ".lv/*", ".lv/**":
			return true, nil
		}
	}
	return false, scanner.Err()
}

// appendIgnorePattern appends pattern to the .gitignore, creating it when
// absent and keeping the existing content's trailing newline intact.
func appendIgnorePattern(path, pattern string) error {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	var toWrite string
	if len(content) == 0 {
		toWrite = "# lv local settings\n" + pattern + "\n"
	} else {
		if content[len(content)-1] != '\n' {
			toWrite = "\n"
		}
		toWrite += "\n# lv local settings\n" + pattern + "\n"
	}

	_, err = file.WriteString(toWrite)
	return err
}
