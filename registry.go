package corpus

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/garethredfern/redfern-dev-sub002/content"
)

// registryFile is the on-disk shape of corpus.yaml: the declared series and
// their canonical display titles.
type registryFile struct {
	Series map[string]string `yaml:"series"`
}

// LoadRegistry reads the series registry at path. Keys are normalized, so the
// file may use either the slug or the display spelling as the key. A missing
// file is not an error; the registry is optional.
func LoadRegistry(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read series registry %s: %w", path, err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse series registry %s: %w", path, err)
	}

	titles := make(map[string]string, len(file.Series))
	for key, title := range file.Series {
		titles[content.Slugify(key)] = title
	}
	return titles, nil
}
