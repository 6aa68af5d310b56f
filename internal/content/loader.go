package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/hashstructure/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var contentExts = []string{".yaml", ".yml", ".json"}

// Library is the immutable content loaded at start-up.
type Library struct {
	Challenges   *Catalog[Challenge]
	Explanations *Catalog[Explanation]
	Fingerprint  uint64
}

// ErrorCount is the number of solution entries across all challenges.
func (l *Library) ErrorCount() int {
	n := 0
	for _, c := range l.Challenges.All() {
		n += len(c.Solution)
	}
	return n
}

// NewLibrary validates records, builds both catalogs and fingerprints them.
func NewLibrary(challenges []Challenge, explanations []Explanation) (*Library, error) {
	for i := range challenges {
		challenges[i].hydrate()
		if err := challenges[i].Validate(); err != nil {
			return nil, fmt.Errorf("challenge %d (%s): %w", challenges[i].ID, challenges[i].Title, err)
		}
	}
	for i := range explanations {
		explanations[i].hydrate()
		if err := explanations[i].Validate(); err != nil {
			return nil, fmt.Errorf("explanation %d (%s): %w", explanations[i].ID, explanations[i].Title, err)
		}
	}
	cc, err := NewCatalog(challenges)
	if err != nil {
		return nil, fmt.Errorf("challenges: %w", err)
	}
	ec, err := NewCatalog(explanations)
	if err != nil {
		return nil, fmt.Errorf("explanations: %w", err)
	}
	fp, err := Fingerprint(challenges, explanations)
	if err != nil {
		return nil, err
	}
	return &Library{Challenges: cc, Explanations: ec, Fingerprint: fp}, nil
}

// Fingerprint hashes the authored fields of the content set.
func Fingerprint(challenges []Challenge, explanations []Explanation) (uint64, error) {
	h, err := hashstructure.Hash(struct {
		Challenges   []Challenge
		Explanations []Explanation
	}{challenges, explanations}, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, fmt.Errorf("fingerprint content: %w", err)
	}
	return h, nil
}

// FSLoader reads challenges.{yaml,yml,json} and explanations.{yaml,yml,json}
// from a directory. Each file holds a top-level list of records.
type FSLoader struct {
	Root string
}

func NewLoader(root string) *FSLoader { return &FSLoader{Root: root} }

func (l *FSLoader) Load(ctx context.Context) (*Library, error) {
	var (
		challenges   []Challenge
		explanations []Explanation
		found        [2]bool
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		ok, err := readList(l.Root, "challenges", &challenges)
		found[0] = ok
		return err
	})
	g.Go(func() error {
		ok, err := readList(l.Root, "explanations", &explanations)
		found[1] = ok
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !found[0] && !found[1] {
		return nil, fmt.Errorf("no challenges or explanations found under %s", l.Root)
	}
	lib, err := NewLibrary(challenges, explanations)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", l.Root, err)
	}
	return lib, nil
}

func readList[T any](root, base string, out *[]T) (bool, error) {
	path, err := findContentFile(root, base)
	if err != nil {
		return false, err
	}
	if path == "" {
		return false, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return true, err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return true, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

func findContentFile(root, base string) (string, error) {
	for _, ext := range contentExts {
		p := filepath.Join(root, base+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}
	return "", nil
}
