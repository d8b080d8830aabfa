package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Layout names the subdirectories of a dataset root.
type Layout struct {
	AudioDir       string
	ReferencesDir  string
	EstimationsDir string
}

// DefaultLayout is the conventional dataset tree shape.
func DefaultLayout() Layout {
	return Layout{
		AudioDir:       "audio",
		ReferencesDir:  "references",
		EstimationsDir: "estimations",
	}
}

// MatchAll is the name filter matching every collection.
const MatchAll = "*"

// AnnotationExt is the reference annotation file extension.
const AnnotationExt = ".json"

// EstimationExt is the estimation artifact file extension.
const EstimationExt = ".json"

var audioExtensions = map[string]struct{}{
	".wav":  {},
	".mp3":  {},
	".flac": {},
	".ogg":  {},
	".aiff": {},
}

// Item is one matched dataset triple. Immutable once discovered; each item is
// consumed by exactly one batch task.
type Item struct {
	// Audio is the path to the audio file.
	Audio string
	// Annotation is the path to the reference annotation, empty when the
	// references directory has no document for this track.
	Annotation string
	// Output is the estimation artifact destination, derived from the track
	// base name.
	Output string
	// Track is the audio base name without extension.
	Track string
	// Collection is the dataset prefix of the track name, empty when the
	// name carries none.
	Collection string
}

// Discover enumerates the dataset triples under root whose collection prefix
// matches filter ("*" matches everything). Results are sorted by track name
// so enumeration order is deterministic.
func Discover(root, filter string, layout Layout) ([]Item, error) {
	audioDir := filepath.Join(root, layout.AudioDir)
	entries, err := os.ReadDir(audioDir)
	if err != nil {
		return nil, fmt.Errorf("read audio directory: %w", err)
	}

	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = MatchAll
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if _, ok := audioExtensions[ext]; !ok {
			continue
		}
		track := strings.TrimSuffix(name, filepath.Ext(name))
		collection := collectionPrefix(track)
		if !matchesFilter(collection, filter) {
			continue
		}

		annotation := filepath.Join(root, layout.ReferencesDir, track+AnnotationExt)
		if _, err := os.Stat(annotation); err != nil {
			annotation = ""
		}

		items = append(items, Item{
			Audio:      filepath.Join(audioDir, name),
			Annotation: annotation,
			Output:     filepath.Join(root, layout.EstimationsDir, track+EstimationExt),
			Track:      track,
			Collection: collection,
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Track < items[j].Track })
	return items, nil
}

func collectionPrefix(track string) string {
	if idx := strings.Index(track, "_"); idx > 0 {
		return track[:idx]
	}
	return ""
}

func matchesFilter(collection, filter string) bool {
	if filter == MatchAll {
		return true
	}
	matched, err := filepath.Match(filter, collection)
	if err != nil {
		// Invalid pattern: fall back to exact prefix comparison.
		return collection == filter
	}
	return matched
}
