// Command sortdump reads lines from stdin, analyzes each as a collated
// field value, and prints them in index term order with the term bytes
// in hex. Useful for inspecting what a collated field will store and
// how it will sort.
package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"GoCollate/internal/analysis"
	"GoCollate/internal/collation"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	locale := flag.String("locale", "en-US", "BCP 47 locale for collation")
	legacy := flag.Bool("legacy", false, "emit the pre-cutover encoded term format")
	ignoreCase := flag.Bool("ignore-case", false, "collate case-insensitively")
	ignoreDiacritics := flag.Bool("ignore-diacritics", false, "collate ignoring diacritics")
	numeric := flag.Bool("numeric", false, "order digit runs by numeric value")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	version := collation.VersionLatest
	if *legacy {
		version = collation.VersionOrderedEncoding
	}

	source, err := collation.NewLocaleKeySource(*locale, collation.Options{
		IgnoreCase:       *ignoreCase,
		IgnoreDiacritics: *ignoreDiacritics,
		Numeric:          *numeric,
	})
	if err != nil {
		logger.Error("invalid locale", "locale", *locale, "err", err)
		os.Exit(1)
	}
	analyzer, err := analysis.NewCollationKeyAnalyzer(version, source)
	if err != nil {
		logger.Error("analyzer construction failed", "err", err)
		os.Exit(1)
	}

	logger.Info("sortdump",
		"version", Version,
		"locale", *locale,
		"term_format", version.String(),
	)

	type entry struct {
		line string
		term []byte
	}
	var entries []entry

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		tokens := analyzer.Analyze("stdin", line)
		entries = append(entries, entry{line: line, term: tokens[0].Term})
	}
	if err := scanner.Err(); err != nil {
		logger.Error("read stdin", "err", err)
		os.Exit(1)
	}

	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].term, entries[j].term) < 0
	})

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	for _, e := range entries {
		fmt.Fprintf(out, "%s\t%s\n", hex.EncodeToString(e.term), e.line)
	}
}
