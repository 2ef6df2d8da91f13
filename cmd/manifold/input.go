package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// readSMILES collects compounds from args, or from file when args is
// empty. file "-" reads stdin. Blank lines and lines starting with # are
// skipped; only the first whitespace-separated field of a line is used,
// so .smi files with trailing names work.
func readSMILES(args []string, file string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if file == "" {
		return nil, fmt.Errorf("no compounds given: pass SMILES as arguments or use --file")
	}

	var r io.Reader = stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open compound file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var smiles []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		smiles = append(smiles, strings.Fields(line)[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read compounds: %w", err)
	}
	if len(smiles) == 0 {
		return nil, fmt.Errorf("no compounds in %s", file)
	}
	return smiles, nil
}
