// Package config reads institution profiles from an ini file
// (~/.fruitatlascfg by convention). A profile carries everything the
// renderers need to brand a report plus the local scan-log location.
package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"
)

// Profile is one named institution configuration.
type Profile struct {
	// InstitutionLines are the up-to-three centered header lines.
	InstitutionLines []string
	FooterLabel      string
	LogoPath         string
	// ConverterConfig, when set, points at the conversion service config
	// file and selects the HTML-to-PDF fallback backend.
	ConverterConfig string
	DBPath          string
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (*Profile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (*Profile, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", name)
	}

	lines := make([]string, 0, 3)
	for _, key := range []string{"institution_line1", "institution_line2", "institution_line3"} {
		if v := section.Key(key).String(); v != "" {
			lines = append(lines, v)
		}
	}

	p := &Profile{
		InstitutionLines: lines,
		FooterLabel:      section.Key("footer_label").String(),
		LogoPath:         section.Key("logo_path").String(),
		ConverterConfig:  section.Key("converter_config").String(),
		DBPath:           section.Key("db_path").String(),
	}
	if len(p.InstitutionLines) == 0 {
		p.InstitutionLines = []string{"Talisay Fruit Analysis System"}
	}
	if p.FooterLabel == "" {
		p.FooterLabel = "Fruit Atlas Report"
	}
	return p, nil
}
