package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/realmeupdater/realme-updates-tracker/internal/update"
)

const mergedArchiveName = "archive.yml"

// archiveEntry is the persisted shape of one codename's archive: the
// codename mapped to its version-to-download-link history.
type archiveEntry map[string]map[string]string

// ArchiveStore maintains the permanent per-codename version archive. Entries
// only ever grow; re-archiving a known version overwrites the pair with an
// identical value.
type ArchiveStore struct {
	dir string
}

// NewArchiveStore returns a store rooted at the archive directory.
func NewArchiveStore(dir string) *ArchiveStore {
	return &ArchiveStore{dir: dir}
}

// Archive appends the record's version and download link to its codename's
// archive file, creating the file on first observation. The archive key is
// derived from the download URL, not from the record's codename field; the
// two derivations can disagree for signed-build URLs and the link form wins
// here.
func (a *ArchiveStore) Archive(record update.UpdateRecord) error {
	codename := update.CodenameFromLink(record.Download)
	path := filepath.Join(a.dir, codename+".yml")

	entry := archiveEntry{}
	if _, err := os.Stat(path); err == nil {
		if err := readYAML(path, &entry); err != nil {
			return fmt.Errorf("load archive for %s: %w", codename, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat archive for %s: %w", codename, err)
	}

	if entry[codename] == nil {
		entry[codename] = make(map[string]string)
	}
	entry[codename][record.Version] = record.Download

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	if err := writeYAML(path, entry); err != nil {
		return fmt.Errorf("write archive for %s: %w", codename, err)
	}
	return nil
}

// Load reads one codename's archive file.
func (a *ArchiveStore) Load(codename string) (map[string]string, error) {
	entry := archiveEntry{}
	if err := readYAML(filepath.Join(a.dir, codename+".yml"), &entry); err != nil {
		return nil, err
	}
	return entry[codename], nil
}

// Merge concatenates every per-codename archive file, in file-name order,
// into the consolidated archive document. Rebuilt in full every run.
func (a *ArchiveStore) Merge() error {
	files, err := filepath.Glob(filepath.Join(a.dir, "*.yml"))
	if err != nil {
		return fmt.Errorf("glob archive files: %w", err)
	}
	sort.Strings(files)

	var merged []archiveEntry
	for _, file := range files {
		if filepath.Base(file) == mergedArchiveName {
			continue
		}
		entry := archiveEntry{}
		if err := readYAML(file, &entry); err != nil {
			return fmt.Errorf("merge archive: %w", err)
		}
		merged = append(merged, entry)
	}
	return writeYAML(filepath.Join(a.dir, mergedArchiveName), merged)
}

// Rebuild regenerates every per-codename archive file from a links list,
// one "version link" pair per line, then rewrites the merged document. Used
// to bootstrap or repair the archive from a known-good link dump.
func (a *ArchiveStore) Rebuild(linksPath string) error {
	file, err := os.Open(linksPath)
	if err != nil {
		return fmt.Errorf("open links list: %w", err)
	}
	defer file.Close()

	entries := map[string]map[string]string{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return fmt.Errorf("malformed links line: %q", line)
		}
		version, link := fields[0], fields[1]
		codename := update.CodenameFromLink(link)
		if entries[codename] == nil {
			entries[codename] = make(map[string]string)
		}
		entries[codename][version] = link
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan links list: %w", err)
	}

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	for codename, roms := range entries {
		path := filepath.Join(a.dir, codename+".yml")
		if err := writeYAML(path, archiveEntry{codename: roms}); err != nil {
			return fmt.Errorf("rebuild archive for %s: %w", codename, err)
		}
	}
	return a.Merge()
}
