package sites

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidelens/seascan/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrUnknownSite is returned when a lookup key matches no registered site.
var ErrUnknownSite = errors.New("unknown site")

// Site is one registered coastal assessment target. WindSpeed and
// DistanceToShore are site-level baseline values, kept in the registry rather
// than in the scoring formulas so they can be overridden per site once real
// per-scene sources exist.
type Site struct {
	Name            string             `yaml:"name"`
	Key             string             `yaml:"key"`
	Lat             float64            `yaml:"lat"`
	Lon             float64            `yaml:"lon"`
	BBox            models.BoundingBox `yaml:"bbox"`
	WindSpeed       float64            `yaml:"wind_speed"`        // m/s
	DistanceToShore float64            `yaml:"distance_to_shore"` // km
}

// Registry holds the static set of sites the dashboard can analyze.
type Registry struct {
	sites map[string]Site
	order []string
}

// Default baseline constants for the Irish Sea bank sites.
const (
	defaultWindSpeed       = 9.4  // m/s, Irish Sea baseline
	defaultDistanceToShore = 11.2 // km, Kish/Arklow baseline
)

// Defaults returns the built-in registry with the two Irish Sea bank sites.
func Defaults() *Registry {
	reg := &Registry{sites: make(map[string]Site)}
	reg.add(Site{
		Name:            "Kish Bank",
		Key:             "kish-bank",
		Lat:             53.27,
		Lon:             -5.95,
		BBox:            models.BoundingBox{West: -6.05, South: 53.15, East: -5.85, North: 53.38},
		WindSpeed:       defaultWindSpeed,
		DistanceToShore: defaultDistanceToShore,
	})
	reg.add(Site{
		Name:            "Arklow Bank",
		Key:             "arklow-bank",
		Lat:             52.85,
		Lon:             -6.00,
		BBox:            models.BoundingBox{West: -6.10, South: 52.75, East: -5.90, North: 52.95},
		WindSpeed:       defaultWindSpeed,
		DistanceToShore: defaultDistanceToShore,
	})
	return reg
}

// Load reads a site registry from a YAML file. Sites missing wind or distance
// baselines inherit the defaults; sites with degenerate bounding boxes are
// rejected at load time rather than at analysis time.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sites file: %w", err)
	}

	var file struct {
		Sites []Site `yaml:"sites"`
	}
	if err = yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sites file: %w", err)
	}
	if len(file.Sites) == 0 {
		return nil, fmt.Errorf("sites file %q contains no sites", path)
	}

	reg := &Registry{sites: make(map[string]Site)}
	for _, site := range file.Sites {
		if site.Key == "" {
			site.Key = Slugify(site.Name)
		}
		if site.WindSpeed == 0 {
			site.WindSpeed = defaultWindSpeed
		}
		if site.DistanceToShore == 0 {
			site.DistanceToShore = defaultDistanceToShore
		}
		if err = site.BBox.Validate(); err != nil {
			return nil, fmt.Errorf("site %q: %w", site.Name, err)
		}
		reg.add(site)
	}

	return reg, nil
}

// Get returns the site registered under the given key.
func (r *Registry) Get(key string) (Site, error) {
	site, ok := r.sites[key]
	if !ok {
		return Site{}, fmt.Errorf("%w: %q", ErrUnknownSite, key)
	}
	return site, nil
}

// List returns all sites in registration order.
func (r *Registry) List() []Site {
	out := make([]Site, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.sites[key])
	}
	return out
}

func (r *Registry) add(site Site) {
	if _, exists := r.sites[site.Key]; !exists {
		r.order = append(r.order, site.Key)
	}
	r.sites[site.Key] = site
}

// Slugify converts a display name into a registry key ("Kish Bank" -> "kish-bank").
func Slugify(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}
