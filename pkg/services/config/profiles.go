package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"
)

// ProfileRegistry resolves named database profiles from an ini file, one section per profile:
//
//	[production]
//	host = db.internal
//	user = atlas
//	password = secret
//	database = procuradorias
type ProfileRegistry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetDatabase(ctx context.Context, profile string) (DatabaseConfig, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewProfileRegistry(path string) (ProfileRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (r *iniRegistry) GetDatabase(_ context.Context, profile string) (DatabaseConfig, error) {
	section, err := r.cfg.GetSection(profile)
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("profile %s not found", profile)
	}

	db := DatabaseConfig{
		Host:     section.Key("host").String(),
		Port:     section.Key("port").MustInt(3306),
		User:     section.Key("user").String(),
		Password: section.Key("password").String(),
		Database: section.Key("database").String(),
	}
	return db, nil
}
