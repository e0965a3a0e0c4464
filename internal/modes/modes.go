package modes

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Normalize trims a raw mode tag and strips quote characters. Absent tags
// normalize to "".
func Normalize(mode *string) string {
	if mode == nil {
		return ""
	}
	return strings.Trim(strings.NewReplacer(`"`, "", `'`, "").Replace(strings.TrimSpace(*mode)), " ")
}

type Icon struct {
	Mode  string `json:"mode"`
	Asset string `json:"asset,omitempty"`
	Known bool   `json:"known"`
}

// Table maps normalized mode tags to icon asset ids.
type Table map[string]string

func DefaultTable() Table {
	return Table{
		"ButtonWaitOrChange": "waiting.png",
		"ButtonBus":          "bus.png",
		"ButtonWalking":      "walk.png",
		"ButtonTram":         "tram.png",
		"ButtonTrain":        "train.png",
		"ButtonCar":          "car.jpg",
		"ButtonCycling":      "bike.png",
		"Cycling":            "bike.png",
	}
}

// Lookup never falls through silently: unmapped modes come back with Known=false.
func (t Table) Lookup(mode string) Icon {
	asset, ok := t[mode]
	if !ok || asset == "" {
		return Icon{Mode: mode}
	}
	return Icon{Mode: mode, Asset: asset, Known: true}
}

var tableNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("journeystress/mode-icons"))

// Digest identifies the table's contents independent of map order.
func (t Table) Digest() string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(t[k])
		b.WriteByte('\n')
	}
	return uuid.NewSHA1(tableNamespace, []byte(b.String())).String()
}

type tableFile struct {
	Icons map[string]string `yaml:"icons"`
}

// LoadTable reads a YAML document of the form
//
//	icons:
//	  ButtonBus: bus.png
func LoadTable(r io.Reader) (Table, error) {
	var f tableFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode mode icon table: %w", err)
	}
	if len(f.Icons) == 0 {
		return nil, fmt.Errorf("mode icon table has no icons")
	}
	t := make(Table, len(f.Icons))
	for mode, asset := range f.Icons {
		m := mode
		t[Normalize(&m)] = strings.TrimSpace(asset)
	}
	return t, nil
}

// LoadTableFile returns DefaultTable when path is empty.
func LoadTableFile(path string) (Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTable(f)
}
