// internal/config/config.go
//
// This package handles configuration and the .slipdeck directory
// structure. The operator's home directory gets a .slipdeck/ folder
// holding config.yaml, the warehouse map CSV and the run logs. Ordering
// vocabulary (area sort order, stop phrases, acceptable sizes) lives
// here and is handed to the pipeline as explicit values - nothing in the
// pipeline reads configuration on its own.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/slipdeck/internal/printer"
	"github.com/yourusername/slipdeck/internal/slip"
)

// SlipdeckDir is the name of the directory created for the operator.
const SlipdeckDir = ".slipdeck"

const defaultConfigYAML = `# slipdeck configuration
version: 1

# CSV mapping product names to warehouse areas, relative to this folder.
warehouse_map: warehouse_map.csv

# The deck sorts by the first area of each page, in this order. Areas not
# listed sort after all listed ones; the manifest only reports listed areas.
area_sort_order: [A13, D16, B11, B12, B13, B14, B16, B17, B18, B19, garage]

parser:
  items_marker: ITEMS
  sku_marker: SKU
  sku_prefix: LB
  stop_phrases:
    - Please note our return window
    - Thank you for shopping with us!
    - If you have any questions
    - NOTES
    - SIGNATURE REQUIRED SHIPPING
    - please visit our returns portal
    - yourcompany.com

output:
  slips: sorted_packing_slips.pdf
  labels: sorted_shipping_labels.pdf

# lp destinations; leave name empty to disable printing for a document.
printers:
  slips:
    name: ""
    media: Letter
    sides: one-sided
    scale_to_fit: true
    reverse_order: true
    collate: true
  labels:
    name: ""
    media: 4x6
    scale_to_fit: true
    reverse_order: true
    collate: true

# Set true to keep per-page DEBUG entries in the run log.
verbose_log: false
`

// ParserSettings mirrors the parser block of config.yaml. Sizes may be
// overridden in YAML; when absent the built-in vocabulary applies.
type ParserSettings struct {
	ItemsMarker string   `yaml:"items_marker"`
	SKUMarker   string   `yaml:"sku_marker"`
	SKUPrefix   string   `yaml:"sku_prefix"`
	StopPhrases []string `yaml:"stop_phrases"`
	Sizes       []string `yaml:"sizes,omitempty"`
}

// OutputSettings names the two generated documents.
type OutputSettings struct {
	Slips  string `yaml:"slips"`
	Labels string `yaml:"labels"`
}

// PrinterSettings holds one profile per output document.
type PrinterSettings struct {
	Slips  printer.Profile `yaml:"slips"`
	Labels printer.Profile `yaml:"labels"`
}

// Settings models .slipdeck/config.yaml.
type Settings struct {
	Version       int             `yaml:"version"`
	WarehouseMap  string          `yaml:"warehouse_map"`
	AreaSortOrder []string        `yaml:"area_sort_order"`
	Parser        ParserSettings  `yaml:"parser"`
	Output        OutputSettings  `yaml:"output"`
	Printers      PrinterSettings `yaml:"printers"`
	VerboseLog    bool            `yaml:"verbose_log"`
}

// Config holds the runtime configuration for slipdeck.
type Config struct {
	// BaseDir is the directory holding .slipdeck (normally the home dir).
	BaseDir string

	// Dir is BaseDir/.slipdeck.
	Dir string

	Settings Settings
}

// DefaultSizes returns the acceptable size vocabulary: the letter sizes,
// the two numbered apparel sizes, the shoe range 30-50 and the sample
// sentinel.
func DefaultSizes() []string {
	sizes := []string{"1", "2", "S", "M", "L", "SM", "ML", "LG", "Size 1", "Size 2", "Sample"}
	for n := 30; n <= 50; n++ {
		sizes = append(sizes, strconv.Itoa(n))
	}
	return sizes
}

// InitDir creates the .slipdeck directory structure under baseDir and
// writes the default config.yaml and an empty warehouse map when they do
// not exist yet.
func InitDir(baseDir string) error {
	dir := filepath.Join(baseDir, SlipdeckDir)
	for _, sub := range []string{dir, filepath.Join(dir, "logs")} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", sub, err)
		}
	}
	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(configPath, []byte(defaultConfigYAML), 0o644); err != nil {
			return fmt.Errorf("config: write default config: %w", err)
		}
	}
	mapPath := filepath.Join(dir, "warehouse_map.csv")
	if _, err := os.Stat(mapPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(mapPath, []byte("Product Name,Area\n"), 0o644); err != nil {
			return fmt.Errorf("config: write empty warehouse map: %w", err)
		}
	}
	return nil
}

// Load reads config.yaml under baseDir/.slipdeck, filling in defaults
// for anything the file leaves out.
func Load(baseDir string) (*Config, error) {
	cfg := &Config{
		BaseDir:  baseDir,
		Dir:      filepath.Join(baseDir, SlipdeckDir),
		Settings: defaultSettings(),
	}
	data, err := os.ReadFile(cfg.ConfigPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", cfg.ConfigPath(), err)
	}
	parsed := defaultSettings()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", cfg.ConfigPath(), err)
	}
	parsed.applyDefaults()
	cfg.Settings = parsed
	return cfg, nil
}

// ConfigPath returns the on-disk location of config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, "config.yaml")
}

// LogPath returns the run log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, "logs", "slipdeck.log")
}

// MapPath resolves the warehouse map location. A relative path in the
// config is taken relative to the .slipdeck directory.
func (c *Config) MapPath() string {
	p := c.Settings.WarehouseMap
	if p == "" {
		p = "warehouse_map.csv"
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// ParserConfig converts the parser settings into the parser's own
// configuration value.
func (c *Config) ParserConfig() slip.Config {
	return slip.Config{
		ItemsMarker: c.Settings.Parser.ItemsMarker,
		StopPhrases: c.Settings.Parser.StopPhrases,
		Sizes:       c.Settings.Parser.Sizes,
		SKUMarker:   c.Settings.Parser.SKUMarker,
		SKUPrefix:   c.Settings.Parser.SKUPrefix,
	}
}

func defaultSettings() Settings {
	var s Settings
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &s); err != nil {
		// The embedded document is fixed at build time; failing to
		// parse it is a programming error.
		panic(fmt.Sprintf("config: invalid embedded defaults: %v", err))
	}
	s.applyDefaults()
	return s
}

func (s *Settings) applyDefaults() {
	if s.Version == 0 {
		s.Version = 1
	}
	if s.WarehouseMap == "" {
		s.WarehouseMap = "warehouse_map.csv"
	}
	if len(s.AreaSortOrder) == 0 {
		s.AreaSortOrder = []string{"A13", "D16", "B11", "B12", "B13", "B14", "B16", "B17", "B18", "B19", "garage"}
	}
	if s.Parser.ItemsMarker == "" {
		s.Parser.ItemsMarker = "ITEMS"
	}
	if len(s.Parser.Sizes) == 0 {
		s.Parser.Sizes = DefaultSizes()
	}
	if s.Output.Slips == "" {
		s.Output.Slips = "sorted_packing_slips.pdf"
	}
	if s.Output.Labels == "" {
		s.Output.Labels = "sorted_shipping_labels.pdf"
	}
}
