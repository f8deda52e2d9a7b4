package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/edvin/mailwatch/internal/api/request"
	"github.com/edvin/mailwatch/internal/model"
)

// Config is the seed file layout.
type Config struct {
	Domains []request.Domain `yaml:"domains"`
}

// Store is the domain storage surface seeding needs.
type Store interface {
	GetDomainByName(ctx context.Context, name string) (*model.Domain, error)
	CreateDomain(ctx context.Context, d *model.Domain) error
}

// Result counts the domains handled by a seed run.
type Result struct {
	Created int
	Skipped int
}

// Load reads and validates a seed file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document and validates every domain in it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, d := range cfg.Domains {
		if err := request.Validate(d); err != nil {
			return nil, fmt.Errorf("domain %d (%q): %w", i, d.Name, err)
		}
	}
	return &cfg, nil
}

// Apply creates every seeded domain that does not exist yet. Existing
// domains are left untouched. Progress is written to out.
func Apply(ctx context.Context, st Store, cfg *Config, out io.Writer) (Result, error) {
	var res Result
	for _, d := range cfg.Domains {
		dom, err := d.ToModel()
		if err != nil {
			return res, fmt.Errorf("domain %q: %w", d.Name, err)
		}

		existing, err := st.GetDomainByName(ctx, dom.Name)
		switch {
		case err == nil:
			fmt.Fprintf(out, "Domain %q: exists (%s, skipping)\n", dom.Name, existing.ID)
			res.Skipped++
			continue
		case !errors.Is(err, model.ErrNotFound):
			return res, fmt.Errorf("look up domain %q: %w", dom.Name, err)
		}

		if err := st.CreateDomain(ctx, dom); err != nil {
			return res, fmt.Errorf("create domain %q: %w", dom.Name, err)
		}
		fmt.Fprintf(out, "Domain %q: %s created\n", dom.Name, dom.ID)
		res.Created++
	}
	return res, nil
}
