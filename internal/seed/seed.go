// Package seed populates an empty registry with starting data.
package seed

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/service-center/internal/auth"
	"github.com/spec-kit/service-center/internal/domain"
	"github.com/spec-kit/service-center/internal/repository"
)

// Data is the seed file layout.
type Data struct {
	Administrators []Administrator `yaml:"administrators"`
	Categories     []Category      `yaml:"categories"`
	Stations       []Station       `yaml:"stations"`
	Employees      []Employee      `yaml:"employees"`
	Clients        []Client        `yaml:"clients"`
}

type Administrator struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Password    string `yaml:"password"`
	AccessLevel int    `yaml:"access_level"`
}

type Category struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Prefix      string `yaml:"prefix"`
	Inactive    bool   `yaml:"inactive"`
}

type Station struct {
	ID         int   `yaml:"id"`
	Number     int   `yaml:"number"`
	Categories []int `yaml:"categories"`
}

type Employee struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Password   string `yaml:"password"`
	Station    int    `yaml:"station"`
	Categories []int  `yaml:"categories"`
}

type Client struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Contact string `yaml:"contact"`
}

// Load reads a seed file. An empty path yields the built-in sample data.
func Load(path string) (*Data, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates YAML seed data.
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Validate checks references between sections.
func (d *Data) Validate() error {
	categories := make(map[int]bool, len(d.Categories))
	prefixes := make(map[string]bool, len(d.Categories))
	for _, c := range d.Categories {
		if c.ID <= 0 || c.Name == "" || c.Prefix == "" {
			return fmt.Errorf("category %d: id, name and prefix are required", c.ID)
		}
		prefix := strings.ToUpper(c.Prefix)
		if categories[c.ID] || prefixes[prefix] {
			return fmt.Errorf("category %d: duplicate id or prefix %q", c.ID, c.Prefix)
		}
		categories[c.ID] = true
		prefixes[prefix] = true
	}

	stations := make(map[int]bool, len(d.Stations))
	for _, s := range d.Stations {
		if s.ID <= 0 || s.Number <= 0 {
			return fmt.Errorf("station %d: id and number must be positive", s.ID)
		}
		if stations[s.ID] {
			return fmt.Errorf("station %d: duplicate id", s.ID)
		}
		stations[s.ID] = true
		for _, id := range s.Categories {
			if !categories[id] {
				return fmt.Errorf("station %d: unknown category %d", s.ID, id)
			}
		}
	}

	users := map[string]bool{}
	for _, a := range d.Administrators {
		if a.ID == "" || a.Password == "" || users[a.ID] {
			return fmt.Errorf("administrator %q: missing or duplicate id/password", a.ID)
		}
		users[a.ID] = true
	}
	staffed := map[int]string{}
	for _, e := range d.Employees {
		if e.ID == "" || e.Password == "" || users[e.ID] {
			return fmt.Errorf("employee %q: missing or duplicate id/password", e.ID)
		}
		users[e.ID] = true
		if e.Station != 0 {
			if !stations[e.Station] {
				return fmt.Errorf("employee %q: unknown station %d", e.ID, e.Station)
			}
			if other, ok := staffed[e.Station]; ok {
				return fmt.Errorf("employee %q: station %d already staffed by %q", e.ID, e.Station, other)
			}
			staffed[e.Station] = e.ID
		}
		for _, id := range e.Categories {
			if !categories[id] {
				return fmt.Errorf("employee %q: unknown category %d", e.ID, id)
			}
		}
	}

	clients := map[string]bool{}
	for _, c := range d.Clients {
		if c.ID == "" || c.Name == "" || clients[c.ID] {
			return fmt.Errorf("client %q: missing or duplicate id/name", c.ID)
		}
		clients[c.ID] = true
	}
	return nil
}

// Apply adds d to reg, hashing passwords with bcryptCost. Employees start
// OFFLINE.
func Apply(reg *repository.Registry, d *Data, bcryptCost int) error {
	categories := make(map[int]*domain.Category, len(d.Categories))
	for _, c := range d.Categories {
		category := domain.NewCategory(c.ID, c.Name, c.Description, strings.ToUpper(c.Prefix))
		if c.Inactive {
			category.Deactivate()
		}
		if err := reg.Categories.Add(category); err != nil {
			return fmt.Errorf("seed category %d: %w", c.ID, err)
		}
		categories[c.ID] = category
	}

	stations := make(map[int]*domain.Station, len(d.Stations))
	for _, s := range d.Stations {
		station := domain.NewStation(s.ID, s.Number)
		for _, id := range s.Categories {
			station.AddCategory(id)
		}
		if err := reg.Stations.Add(station); err != nil {
			return fmt.Errorf("seed station %d: %w", s.ID, err)
		}
		stations[s.ID] = station
	}

	for _, a := range d.Administrators {
		hash, err := auth.HashPassword(a.Password, bcryptCost)
		if err != nil {
			return fmt.Errorf("hash administrator %q: %w", a.ID, err)
		}
		level := a.AccessLevel
		if level <= 0 {
			level = 1
		}
		admin := &domain.Administrator{ID: a.ID, Name: a.Name, PasswordHash: hash, AccessLevel: level}
		if err := reg.Users.Add(domain.AdministratorUser(admin)); err != nil {
			return fmt.Errorf("seed administrator %q: %w", a.ID, err)
		}
	}

	for _, e := range d.Employees {
		hash, err := auth.HashPassword(e.Password, bcryptCost)
		if err != nil {
			return fmt.Errorf("hash employee %q: %w", e.ID, err)
		}
		employee := domain.NewEmployee(e.ID, e.Name, hash)
		if err := reg.Users.Add(domain.EmployeeUser(employee)); err != nil {
			return fmt.Errorf("seed employee %q: %w", e.ID, err)
		}
		if station, ok := stations[e.Station]; ok {
			station.SetEmployee(e.ID)
		}
		for _, id := range e.Categories {
			categories[id].AssignEmployee(e.ID)
		}
	}

	for _, c := range d.Clients {
		if err := reg.Clients.Add(domain.Client{ID: c.ID, Name: c.Name, ContactInfo: c.Contact}); err != nil {
			return fmt.Errorf("seed client %q: %w", c.ID, err)
		}
	}
	return nil
}

// Default returns the sample service center: one administrator, four
// categories, three stations, three employees and three clients.
func Default() *Data {
	return &Data{
		Administrators: []Administrator{
			{ID: "admin", Name: "System Administrator", Password: "admin123", AccessLevel: 3},
		},
		Categories: []Category{
			{ID: 1, Name: "General Inquiry", Description: "General customer inquiries", Prefix: "GEN"},
			{ID: 2, Name: "Billing", Description: "Billing and payment inquiries", Prefix: "BIL"},
			{ID: 3, Name: "Technical Support", Description: "Technical issues and support", Prefix: "TEC"},
			{ID: 4, Name: "Complaints", Description: "Customer complaints handling", Prefix: "COM"},
		},
		Stations: []Station{
			{ID: 1, Number: 1, Categories: []int{1, 2}},
			{ID: 2, Number: 2, Categories: []int{3}},
			{ID: 3, Number: 3, Categories: []int{4, 1}},
		},
		Employees: []Employee{
			{ID: "emp1", Name: "John Smith", Password: "pass123", Station: 1, Categories: []int{1, 2}},
			{ID: "emp2", Name: "Maria García", Password: "pass123", Station: 2, Categories: []int{3}},
			{ID: "emp3", Name: "Carlos Rodríguez", Password: "pass123", Station: 3, Categories: []int{4, 1}},
		},
		Clients: []Client{
			{ID: "C001", Name: "Ana Martinez", Contact: "ana@example.com"},
			{ID: "C002", Name: "Luis Perez", Contact: "luis@example.com"},
			{ID: "C003", Name: "Sofia Gutierrez", Contact: "sofia@example.com"},
		},
	}
}
