package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// #region readers

// readLines streams each well-formed JSON line to fn. A missing file reads
// as empty; malformed lines are skipped rather than aborting the read, so
// a torn trailing line from a crashed run does not poison analysis.
func readLines(path string, fn func(line []byte) bool) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open journal %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		if !fn(line) {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan journal %s: %w", path, err)
	}
	return nil
}

// ReadActions loads the action stream at path.
func ReadActions(path string) ([]ActionEntry, error) {
	var out []ActionEntry
	err := readLines(path, func(line []byte) bool {
		var e ActionEntry
		if json.Unmarshal(line, &e) == nil {
			out = append(out, e)
		}
		return true
	})
	return out, err
}

// ReadReflections loads the reflection stream at path.
func ReadReflections(path string) ([]ReflectionEntry, error) {
	var out []ReflectionEntry
	err := readLines(path, func(line []byte) bool {
		var e ReflectionEntry
		if json.Unmarshal(line, &e) == nil {
			out = append(out, e)
		}
		return true
	})
	return out, err
}

// ReadSupervisor loads the supervisor stream at path.
func ReadSupervisor(path string) ([]SupervisorEntry, error) {
	var out []SupervisorEntry
	err := readLines(path, func(line []byte) bool {
		var e SupervisorEntry
		if json.Unmarshal(line, &e) == nil {
			out = append(out, e)
		}
		return true
	})
	return out, err
}

// #endregion readers
